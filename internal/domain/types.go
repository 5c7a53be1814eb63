package domain

// CheckState is the tri-state checkbox value for one node. Absence from
// a selection map reads as Unchecked.
type CheckState string

const (
	Unchecked     CheckState = "unchecked"
	Checked       CheckState = "checked"
	Indeterminate CheckState = "indeterminate"
)

type SortKey string

const (
	SortByName   SortKey = "name"
	SortBySize   SortKey = "size"
	SortByTokens SortKey = "tokens"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)
