package httpapi

type RefreshStatus struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	Years     int    `json:"years"`
	Running   bool   `json:"running"`
}

type titlesResponse struct {
	Selected bool   `json:"selected"`
	Year     int    `json:"year,omitempty"`
	Token    uint64 `json:"token"`
	Titles   any    `json:"jobTitles"`
	Total    int    `json:"total"`
}
