package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"anonchat/errors"
)

func TestRenameInput_Rejects_Oversized_Names(t *testing.T) {
	req := require.New(t)

	req.NoError(RenameInput{Name: "Wanderer"}.Validate())
	req.NoError(RenameInput{Name: strings.Repeat("x", MaxNicknameLen)}.Validate())
	req.ErrorIs(RenameInput{Name: strings.Repeat("x", MaxNicknameLen+1)}.Validate(), errors.ErrNameTooLong)
	req.ErrorIs(RenameInput{Name: ""}.Validate(), errors.ErrNameTooLong)
}

func TestParsePollInput_Splits_Question_And_Options(t *testing.T) {
	req := require.New(t)

	input, err := ParsePollInput("How is it going?\nGood\n\nFine\n")

	req.NoError(err)
	req.Equal("How is it going?", input.Question)
	req.Equal([]string{"Good", "Fine"}, input.Options)
}

func TestParsePollInput_Requires_At_Least_One_Option(t *testing.T) {
	req := require.New(t)

	_, err := ParsePollInput("A question without options")

	req.ErrorIs(err, errors.ErrNoOptions)
}

func TestPickerKeyboard_Three_Per_Row_Plus_Cancel(t *testing.T) {
	req := require.New(t)
	sessions := []Session{
		{Identity: "u1", Pseudonym: "A", Code: "#AAAA"},
		{Identity: "u2", Pseudonym: "B", Code: "#BBBB"},
		{Identity: "u3", Pseudonym: "C", Code: "#CCCC"},
		{Identity: "u4", Pseudonym: "D", Code: "#DDDD"},
	}

	kb := PickerKeyboard(sessions, func(s Session) string {
		return "pick|" + string(s.Identity)
	}, "pick_cancel")

	// Four candidates pack into a row of three, a row of one and the cancel row
	req.Len(kb.Rows, 3)
	req.Len(kb.Rows[0], 3)
	req.Len(kb.Rows[1], 1)
	req.Equal("pick|u4", kb.Rows[1][0].Token)
	req.Equal("pick_cancel", kb.Rows[2][0].Token)
}
