package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InterpolateQuery returns a formatted query for logging.
// Both "?" and "$n" placeholders are substituted; the output is valid SQL that
// can be copy-pasted into a database shell.
func InterpolateQuery(query string, args []any) string {
	query = walkPlaceholders(query, func(sb *strings.Builder, ordinal int, token string) {
		if ordinal < 1 || ordinal > len(args) {
			sb.WriteString(token)
			return
		}
		sb.WriteString(literal(args[ordinal-1]))
	})

	query = strings.ReplaceAll(query, "\t", " ")
	query = strings.ReplaceAll(query, "\n", "")

	return query
}

func literal(arg any) string {
	switch v := arg.(type) {
	case string:
		// Wrap strings in single quotes, escape internal quotes.
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%v", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		// RFC3339Nano drops the monotonic clock reading.
		return "'" + v.Format(time.RFC3339Nano) + "'"
	case nil:
		return "NULL"
	default:
		return fmt.Sprintf("'%v'", v)
	}
}

// walkPlaceholders copies query, handing every "?" or "$n" placeholder found
// outside quoted identifiers and string literals to emit. ordinal is 1-based:
// the running count for "?", the written index for "$n".
func walkPlaceholders(query string, emit func(sb *strings.Builder, ordinal int, token string)) string {
	var sb strings.Builder
	sb.Grow(len(query))

	var quote byte
	seen := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			// A doubled quote closes and immediately reopens, which is equivalent.
			if c == quote {
				quote = 0
			}
			sb.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			sb.WriteByte(c)
		case c == '?':
			seen++
			emit(&sb, seen, "?")
		case c == '$' && i+1 < len(query) && isDigit(query[i+1]):
			j := i + 1
			for j < len(query) && isDigit(query[j]) {
				j++
			}
			n, err := strconv.Atoi(query[i+1 : j])
			if err != nil {
				sb.WriteString(query[i:j])
			} else {
				emit(&sb, n, query[i:j])
			}
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
