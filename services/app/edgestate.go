package app

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/net/html"
)

type EdgeState struct {
	Authed      bool   `json:"authed"`
	AccessToken string `json:"accessToken,omitempty"`
}

type edgeStateEnvelope struct {
	State EdgeState `json:"state"`
}

// InjectEdgeState prepends the edge-state script to the content of the body element.
// Documents without a body get the script in front of everything.
func InjectEdgeState(page []byte, state EdgeState) ([]byte, error) {
	blob, err := json.Marshal(edgeStateEnvelope{State: state})
	if err != nil {
		return nil, fmt.Errorf("error marshalling edge state: %s", err)
	}
	script := fmt.Sprintf("\n<script id='edge_state' type='application/json'>%s</script>\n", blob)

	offset, found := bodyContentOffset(page)
	if !found {
		offset = 0
	}

	result := make([]byte, 0, len(page)+len(script))
	result = append(result, page[:offset]...)
	result = append(result, script...)
	result = append(result, page[offset:]...)
	return result, nil
}

func bodyContentOffset(page []byte) (int, bool) {
	tokenizer := html.NewTokenizer(bytes.NewReader(page))
	offset := 0
	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			// io.EOF or garbage: either way there is no body
			return 0, false
		}
		offset += len(tokenizer.Raw())
		if tokenType == html.StartTagToken {
			name, _ := tokenizer.TagName()
			if string(name) == "body" {
				return offset, true
			}
		}
	}
}
