package store

import (
	"fmt"
	"strings"

	"github.com/Etherea7/mastering-the-pokemon-arena-sub000/internal/model"
)

// Selector narrows a query to one format bucket and an optional inclusive
// month range. Empty fields are not filtered on.
type Selector struct {
	Generation   string
	BattleFormat string
	Rating       *uint32
	From         string
	To           string
}

// Validate checks the month bounds. Validated bounds compare correctly as
// plain strings.
func (s Selector) Validate() error {
	if s.From != "" {
		if _, err := model.ParseYearMonth(s.From); err != nil {
			return fmt.Errorf("from: %w", err)
		}
	}
	if s.To != "" {
		if _, err := model.ParseYearMonth(s.To); err != nil {
			return fmt.Errorf("to: %w", err)
		}
	}
	if s.From != "" && s.To != "" && s.From > s.To {
		return fmt.Errorf("from %s is after to %s", s.From, s.To)
	}
	return nil
}

// where renders the selector as SQL conditions, starting with any extra
// leading conditions.
func (s Selector) where(lead []string, leadArgs ...any) (string, []any) {
	conds := append([]string(nil), lead...)
	args := append([]any(nil), leadArgs...)
	if s.Generation != "" {
		conds = append(conds, "generation = ?")
		args = append(args, s.Generation)
	}
	if s.BattleFormat != "" {
		conds = append(conds, "battle_format = ?")
		args = append(args, s.BattleFormat)
	}
	if s.Rating != nil {
		conds = append(conds, "rating = ?")
		args = append(args, int64(*s.Rating))
	}
	if s.From != "" {
		conds = append(conds, "year_month >= ?")
		args = append(args, s.From)
	}
	if s.To != "" {
		conds = append(conds, "year_month <= ?")
		args = append(args, s.To)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
