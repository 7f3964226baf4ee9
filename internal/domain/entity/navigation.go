package entity

import "errors"

var (
	// ErrNavigationDisabled команда вызвана, когда она выключена
	ErrNavigationDisabled = errors.New("navigation command is disabled")
	// ErrNoStages в конвейере нет стадий
	ErrNoStages = errors.New("pipeline has no stages")
)

// NavigationCommand команда перехода между стадиями
type NavigationCommand int

const (
	NavFirst NavigationCommand = iota
	NavPrevious
	NavNext
	NavLast
)

func (c NavigationCommand) String() string {
	switch c {
	case NavFirst:
		return "first"
	case NavPrevious:
		return "previous"
	case NavNext:
		return "next"
	case NavLast:
		return "last"
	}
	return "unknown"
}

// Commands доступность команд навигации, вычисляется из состояния
type Commands struct {
	First    bool
	Previous bool
	Next     bool
	Last     bool
}

// Enabled доступна ли конкретная команда
func (c Commands) Enabled(cmd NavigationCommand) bool {
	switch cmd {
	case NavFirst:
		return c.First
	case NavPrevious:
		return c.Previous
	case NavNext:
		return c.Next
	case NavLast:
		return c.Last
	}
	return false
}

// NavigationState выбранная и закреплённая стадии.
// Закреплённая стадия, если есть, всегда показывается вместо выбранной.
type NavigationState struct {
	Selected *Stage
	Pinned   *Stage
}

// Display стадия, которая сейчас показывается
func (s NavigationState) Display() *Stage {
	if s.Pinned != nil {
		return s.Pinned
	}
	return s.Selected
}

// IsPinned активно ли закрепление
func (s NavigationState) IsPinned() bool {
	return s.Pinned != nil
}

// Refresh сбрасывает ссылки на стадии, которых больше нет в конвейере
func (s NavigationState) Refresh(stages []*Stage) NavigationState {
	switch {
	case len(stages) == 0:
		return NavigationState{}
	case s.Selected == nil || IndexOf(stages, s.Selected) < 0:
		return NavigationState{Selected: stages[0]}
	case s.Pinned != nil && IndexOf(stages, s.Pinned) < 0:
		return NavigationState{Selected: s.Selected}
	}
	return s
}

// Select выбор стадии извне, закрепление не трогает
func (s NavigationState) Select(stage *Stage) NavigationState {
	s.Selected = stage
	return s
}

// TogglePin закрепляет показываемую стадию или снимает закрепление
func (s NavigationState) TogglePin() NavigationState {
	if s.Pinned == nil {
		s.Pinned = s.Display()
	} else {
		s.Pinned = nil
	}
	return s
}

// Commands вычисляет доступность команд для текущего списка стадий
func (s NavigationState) Commands(stages []*Stage) Commands {
	if s.Selected == nil {
		return Commands{}
	}
	index := IndexOf(stages, s.Display())
	return Commands{
		First:    index > 0,
		Previous: index > 0,
		Next:     index < len(stages)-1,
		Last:     index < len(stages)-1,
	}
}

// Navigate выполняет команду. При активном закреплении двигается закреплённая стадия.
func (s NavigationState) Navigate(stages []*Stage, cmd NavigationCommand) (NavigationState, error) {
	if len(stages) == 0 {
		return s, ErrNoStages
	}
	if !s.Commands(stages).Enabled(cmd) {
		return s, ErrNavigationDisabled
	}

	var target *Stage
	switch cmd {
	case NavFirst:
		target = stages[0]
	case NavPrevious:
		target = stages[IndexOf(stages, s.Display())-1]
	case NavNext:
		target = stages[IndexOf(stages, s.Display())+1]
	case NavLast:
		target = stages[len(stages)-1]
	}

	if s.Pinned != nil {
		s.Pinned = target
	} else {
		s.Selected = target
	}
	return s, nil
}
