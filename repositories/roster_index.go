package repositories

import (
	"context"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"

	"anonchat/domain"
)

// RosterIndex keeps a Bluge index of active sessions so /search can match
// pseudonyms. The index lives in memory only and follows the registry: a
// session is indexed on join, reindexed on rename, deleted on leave.
type RosterIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewRosterIndex(log *slog.Logger) (*RosterIndex, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &RosterIndex{writer: writer, log: log}, nil
}

// RosterHit is one search result.
type RosterHit struct {
	Code      string
	Pseudonym string
}

// Index upserts one session keyed by identity.
func (r *RosterIndex) Index(s domain.Session) error {
	doc := bluge.NewDocument(string(s.Identity)).
		AddField(bluge.NewTextField("pseudonym", strings.ToLower(s.Pseudonym)).StoreValue()).
		AddField(bluge.NewStoredOnlyField("display", []byte(s.Pseudonym))).
		AddField(bluge.NewStoredOnlyField("code", []byte(s.Code)))
	return r.writer.Update(doc.ID(), doc)
}

func (r *RosterIndex) Remove(id domain.Identity) error {
	return r.writer.Delete(bluge.Identifier(string(id)))
}

// Search matches the lowercased term as a substring of indexed pseudonym
// tokens via a wildcard query.
func (r *RosterIndex) Search(ctx context.Context, term string, limit int) ([]RosterHit, error) {
	reader, err := r.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			r.log.Debug("Error while closing index reader", "err", err)
		}
	}()

	query := bluge.NewWildcardQuery("*" + strings.ToLower(strings.TrimSpace(term)) + "*").
		SetField("pseudonym")
	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []RosterHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		var hit RosterHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "display":
				hit.Pseudonym = string(value)
			case "code":
				hit.Code = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (r *RosterIndex) Close() error {
	return r.writer.Close()
}
