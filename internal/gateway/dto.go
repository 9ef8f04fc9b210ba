package gateway

// Wire types for the library REST API. Field names follow the server's
// snake_case JSON contract.

type bookDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	FileType    string `json:"file_type"`
	FilePath    string `json:"file_path"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	Progress    int    `json:"progress"`
	Status      string `json:"status"`
	LastRead    *int64 `json:"last_read"` // Unix seconds, null if never read
	Bookmarks   []int  `json:"bookmarks"`
	Category    string `json:"category"`
}

type listResponse struct {
	Books []bookDTO `json:"books"`
}

type bookResponse struct {
	Success bool    `json:"success"`
	Book    bookDTO `json:"book"`
	Error   string  `json:"error"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type deleteResponse struct {
	Success       bool   `json:"success"`
	DeletedBookID string `json:"deletedBookId"`
	Error         string `json:"error"`
}

type progressRequest struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}
