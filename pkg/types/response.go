package types

// SuccessEnvelope is the standard wrapper for successful JSON responses.
type SuccessEnvelope struct {
	Data any             `json:"data"`
	Meta *PaginationMeta `json:"meta,omitempty"`
}

// PaginationMeta describes an offset-paginated listing. Estimated marks a
// total that came from the count-query fallback rather than an exact count.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	Estimated  bool  `json:"estimated,omitempty"`
}

// Problem is the problem-details-like error body returned by the API.
type Problem struct {
	Status int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Errors any    `json:"errors,omitempty"`
}
