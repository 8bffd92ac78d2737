package action

import "seqview/internal/selection"

// DiscoverResponse lists the menu entries offered for a selection.
type DiscoverResponse struct {
	Items []selection.MenuItem `json:"items"`
}

// FormField is one input of the launch form.
type FormField struct {
	Label string                 `json:"label"`
	Type  string                 `json:"type"`
	Name  string                 `json:"name"`
	Data  []selection.MenuOption `json:"data"`
}

// FormResponse asks the user to fill in the launch form.
type FormResponse struct {
	Items []FormField `json:"items"`
}

// Result is the final answer to a launch.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
