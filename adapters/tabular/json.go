package tabular

import (
	"errors"

	"github.com/tidwall/gjson"
)

// readJSON reads an array of flat objects, either at the top level or as the
// first array member of a wrapping object ({"registros": [...]}). Columns are
// the union of object keys in document order.
func readJSON(data []byte) ([][]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON document")
	}

	rows := gjson.ParseBytes(data)
	if rows.IsObject() {
		var found gjson.Result
		rows.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				found = value
				return false
			}
			return true
		})
		rows = found
	}
	if !rows.IsArray() {
		return nil, errors.New("expected an array of records")
	}

	var (
		headers []string
		index   = map[string]int{}
		records []map[int]string
	)
	var itemErr error
	rows.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			itemErr = errors.New("every record must be a JSON object")
			return false
		}
		rec := map[int]string{}
		item.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			col, ok := index[name]
			if !ok {
				col = len(headers)
				index[name] = col
				headers = append(headers, name)
			}
			rec[col] = jsonCell(value)
			return true
		})
		records = append(records, rec)
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}
	if len(headers) == 0 {
		return nil, nil
	}

	out := make([][]string, 0, len(records)+1)
	out = append(out, headers)
	for _, rec := range records {
		row := make([]string, len(headers))
		for col, v := range rec {
			row[col] = v
		}
		out = append(out, row)
	}
	return out, nil
}

func jsonCell(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.Number:
		// Raw keeps the digits exactly as written
		return v.Raw
	case gjson.String:
		return v.String()
	case gjson.True, gjson.False:
		return v.String()
	default:
		return v.Raw
	}
}
