package tools

import "context"

type fetchSuccess struct {
	URL     string `json:"url"`
	Status  int    `json:"status"`
	Content string `json:"content"`
}

type fetchFailure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

func (d *Dispatcher) fetch(ctx context.Context, args map[string]any) (any, bool) {
	url := stringArg(args, "url", "")

	res := d.fetcher.Fetch(ctx, url)
	if res.Error != "" {
		return fetchFailure{URL: url, Error: res.Error}, true
	}
	return fetchSuccess{URL: url, Status: res.Status, Content: res.Content}, false
}
