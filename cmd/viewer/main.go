package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"

	"anonchat/domain"
)

// Config points the viewer at a running relay's debug server.
type Config struct {
	Host    string        `default:"localhost"`
	Port    int           `default:"8080"`
	Timeout time.Duration `default:"5s"`
}

func main() {
	var config Config
	if err := envconfig.Process("viewer", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	client := &http.Client{Timeout: config.Timeout}
	base := fmt.Sprintf("http://%s:%d", config.Host, config.Port)

	color.Bold.Printf("Relay viewer — %s\n\n", base)

	printRoster(client, base)
	printReports(client, base)
	printStats(client, base)
}

func fetch(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s replied %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func printRoster(client *http.Client, base string) {
	var entries []struct {
		Code      string `json:"code"`
		Pseudonym string `json:"pseudonym"`
		Role      string `json:"role"`
		Tier      string `json:"tier"`
	}
	if err := fetch(client, base+"/roster", &entries); err != nil {
		color.Red.Printf("Roster unavailable: %v\n", err)
		return
	}

	color.Cyan.Printf("Participants (%d)\n", len(entries))
	table := newTable([]string{"", "Role", "Code", "Pseudonym"})
	for _, e := range entries {
		table.Append([]string{e.Tier, e.Role, e.Code, e.Pseudonym})
	}
	table.Render()
	fmt.Println()
}

func printReports(client *http.Client, base string) {
	var reports []domain.Report
	if err := fetch(client, base+"/reports", &reports); err != nil {
		color.Red.Printf("Reports unavailable: %v\n", err)
		return
	}

	color.Cyan.Printf("Reports (%d)\n", len(reports))
	table := newTable([]string{"At", "Reporter", "Offender", "Reason", "Tags"})
	for _, r := range reports {
		table.Append([]string{
			r.At.Format("15:04:05"), r.Reporter, r.Offender, r.Reason, fmt.Sprint(r.Tags),
		})
	}
	table.Render()
	fmt.Println()
}

func printStats(client *http.Client, base string) {
	var stats map[string]any
	if err := fetch(client, base+"/stats", &stats); err != nil {
		color.Red.Printf("Stats unavailable: %v\n", err)
		return
	}

	color.Cyan.Println("Counters")
	table := newTable([]string{"Metric", "Value"})
	for k, v := range stats {
		table.Append([]string{k, fmt.Sprint(v)})
	}
	table.Render()
}
