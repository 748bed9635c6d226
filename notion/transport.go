package notion

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// nullNumberTransport 데이터베이스 쿼리 응답에서 값이 null인 숫자 속성을 지웁니다.
// notionapi.NumberProperty는 null을 0으로 디코딩하므로, 속성을 없애서 MapPage가 nil로 읽게 합니다.
type nullNumberTransport struct {
	base http.RoundTripper
}

func newNullNumberTransport(base http.RoundTripper) *nullNumberTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &nullNumberTransport{base: base}
}

// RoundTrip http.RoundTripper 구현
func (t *nullNumberTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil || res.StatusCode != http.StatusOK || !strings.HasSuffix(req.URL.Path, "/query") {
		return res, err
	}

	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		return nil, err
	}
	// 형식이 다르면 원문 그대로 넘겨서 notionapi가 오류를 내게 한다
	if out, err := dropNullNumbers(body); err == nil {
		body = out
	}

	res.Body = io.NopCloser(bytes.NewReader(body))
	res.ContentLength = int64(len(body))
	res.Header.Del("Content-Length")
	return res, nil
}

// dropNullNumbers results[].properties에서 {"type":"number","number":null} 속성을 제거합니다.
// 지울 것이 없으면 입력을 그대로 반환합니다.
func dropNullNumbers(data []byte) ([]byte, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	changed := false
	results, _ := doc["results"].([]any)
	for _, r := range results {
		page, _ := r.(map[string]any)
		props, _ := page["properties"].(map[string]any)
		for name, p := range props {
			prop, _ := p.(map[string]any)
			if prop["type"] != "number" {
				continue
			}
			if v, ok := prop["number"]; ok && v == nil {
				delete(props, name)
				changed = true
			}
		}
	}

	if !changed {
		return data, nil
	}
	return json.Marshal(doc)
}
