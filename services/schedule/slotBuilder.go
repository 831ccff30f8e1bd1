package schedule

import (
	"errors"
	"fmt"
	"strings"

	"medibook/models"
	"medibook/utils"
)

// SessionSelection is the provider's answer to "which sessions?".
type SessionSelection string

const (
	SelectMorning   SessionSelection = "Morning"
	SelectAfternoon SessionSelection = "Afternoon"
	SelectBoth      SessionSelection = "Both"
)

// SelectionChoices is the keyboard offered to the provider.
var SelectionChoices = []string{string(SelectMorning), string(SelectAfternoon), string(SelectBoth)}

var ErrInvalidSelection = errors.New("invalid session selection")

// ParseSelection accepts Morning, Afternoon or Both in any case.
func ParseSelection(text string) (SessionSelection, error) {
	for _, choice := range []SessionSelection{SelectMorning, SelectAfternoon, SelectBoth} {
		if strings.EqualFold(strings.TrimSpace(text), string(choice)) {
			return choice, nil
		}
	}
	return "", fmt.Errorf("%q: %w", text, ErrInvalidSelection)
}

// Sessions lists the stored session names the selection covers, in day order.
func (s SessionSelection) Sessions() []string {
	switch s {
	case SelectMorning:
		return []string{models.SessionMorning}
	case SelectAfternoon:
		return []string{models.SessionAfternoon}
	case SelectBoth:
		return []string{models.SessionMorning, models.SessionAfternoon}
	}
	return nil
}

// Window is the start and end of a session, "HH:MM".
type Window struct {
	Start string
	End   string
}

// BuildSessions lays count evenly spaced open slots over each selected window.
// The step is the window length divided by count, truncated to whole minutes.
func BuildSessions(selection SessionSelection, windows map[string]Window, count int) (map[string]models.Session, error) {
	names := selection.Sessions()
	if len(names) == 0 {
		return nil, ErrInvalidSelection
	}
	if count < 1 {
		return nil, fmt.Errorf("slot count must be positive, got %d", count)
	}

	sessions := make(map[string]models.Session, len(names))
	for _, name := range names {
		w, ok := windows[name]
		if !ok {
			return nil, fmt.Errorf("no window configured for %s", name)
		}
		start, err := utils.ParseClock(w.Start)
		if err != nil {
			return nil, err
		}
		end, err := utils.ParseClock(w.End)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, fmt.Errorf("%s window %s-%s is empty", name, w.Start, w.End)
		}

		step := (end - start) / count
		slots := make([]models.Slot, count)
		for i := range slots {
			slots[i] = models.Slot{Time: utils.FormatClock(start + i*step), Available: true}
		}
		sessions[name] = models.Session{StartTime: w.Start, EndTime: w.End, Slots: slots}
	}
	return sessions, nil
}
