package bms

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"bms_proxy/internal/models"
)

// StatusUnknown is reported when no vendor status could be recovered.
const StatusUnknown = "Unknown"

// Normalize turns a raw vendor reply into a VendorResult. The body is read,
// in order, as a JSON object, as the first balanced JSON object embedded in
// HTML/JS text, and finally as opaque text with an Unknown status.
func Normalize(httpStatus int, contentType string, body []byte) models.VendorResult {
	res := models.VendorResult{
		HTTPStatus:  httpStatus,
		ContentType: contentType,
	}

	obj, ok := decodeObject(body)
	if !ok {
		obj, ok = embeddedObject(body)
	}
	if ok {
		res.Data = obj
		res.VendorStatus = stringField(obj, "status")
		res.VendorMessage = stringField(obj, "message")
		res.VendorStatusCode = stringField(obj, "statusCode")
	} else {
		res.Data = string(body)
	}

	if res.VendorStatus == "" {
		res.VendorStatus = StatusUnknown
	}
	res.Success = strings.EqualFold(res.VendorStatus, "success")
	return res
}

// recovered reports whether the vendor status came from the body.
func recovered(res models.VendorResult) bool {
	return res.VendorStatus != StatusUnknown
}

func decodeObject(b []byte) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return obj, true
}

// embeddedObject returns the first top-level balanced span that decodes as
// a JSON object. Spans that fail to decode are skipped whole, so objects
// nested inside them are never promoted. An unmatched '{' is stepped over.
func embeddedObject(b []byte) (map[string]any, bool) {
	for start := 0; start < len(b); {
		open := bytes.IndexByte(b[start:], '{')
		if open < 0 {
			break
		}
		open += start
		end, ok := balancedEnd(b, open)
		if !ok {
			start = open + 1
			continue
		}
		if obj, ok := decodeObject(b[open:end]); ok {
			return obj, true
		}
		start = end
	}
	return nil, false
}

// balancedEnd returns the index after the '}' closing the object opened at
// start, ignoring braces inside JSON strings.
func balancedEnd(b []byte, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(b); i++ {
		c := b[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
