package wizard

import (
	"fmt"
	"net/url"

	"github.com/go-playground/form/v4"
)

// Query holds the parameters a deploy button links with.
type Query struct {
	URL          string   `form:"url"`
	Fields       []string `form:"fields"`
	APITokenTmpl string   `form:"apiTokenTmpl"`
	APITokenName string   `form:"apiTokenName"`
	Paid         bool     `form:"paid"`
}

var queryDecoder = form.NewDecoder()

func ParseQuery(values url.Values) (Query, error) {
	q := Query{}
	err := queryDecoder.Decode(&q, values)
	if err != nil {
		return Query{}, fmt.Errorf("error parsing query: %s", err)
	}
	return q, nil
}

// IsAcceptedRepoURL only lets http(s) links to github.com through.
func IsAcceptedRepoURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Hostname() == "github.com"
}
