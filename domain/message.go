package domain

// Location identifies one delivered, editable copy of a message.
type Location struct {
	Channel   ChannelID
	MessageID int64
}

// Button is one interactive control. Token is the callback payload the
// transport echoes back when the button is pressed.
type Button struct {
	Label string
	Token string
}

// Keyboard is a grid of buttons attached below a message.
type Keyboard struct {
	Rows [][]Button
}

// PickerKeyboard lays out one button per candidate, three per row, with a
// trailing cancel row. tokenFor builds the callback payload per candidate.
func PickerKeyboard(candidates []Session, tokenFor func(Session) string, cancelToken string) Keyboard {
	var kb Keyboard
	var row []Button
	for _, s := range candidates {
		row = append(row, Button{
			Label: s.Code + " " + s.Pseudonym,
			Token: tokenFor(s),
		})
		if len(row) == 3 {
			kb.Rows = append(kb.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.Rows = append(kb.Rows, row)
	}
	kb.Rows = append(kb.Rows, []Button{{Label: "❌ Cancel", Token: cancelToken}})
	return kb
}
