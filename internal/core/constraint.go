package core

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/types"
)

// ParseDependencyLine splits one .dep line of the form "module[,version]" or
// "module version". Blank and comment lines return ok=false.
func ParseDependencyLine(raw string) (types.DependencyRecord, bool) {
	line := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if line == "" || strings.HasPrefix(line, "#") {
		return types.DependencyRecord{}, false
	}
	end := strings.IndexFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if end < 0 {
		return types.DependencyRecord{Module: line}, true
	}
	record := types.DependencyRecord{Module: line[:end]}
	rest := strings.TrimLeftFunc(line[end+1:], unicode.IsSpace)
	if fields := strings.Fields(rest); len(fields) > 0 {
		record.Version = fields[0]
	}
	return record, true
}

// ParseDependencies reads every dependency record from a .dep stream.
func ParseDependencies(r io.Reader) ([]types.DependencyRecord, error) {
	var records []types.DependencyRecord
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		record, ok := ParseDependencyLine(scanner.Text())
		if !ok {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read dependency file").
			WithCause(err)
	}
	return records, nil
}

// parseDefaultLine splits one default-version line into module and version.
func parseDefaultLine(raw string) (string, string, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return "", "", false
	}
	if len(fields) == 1 {
		return fields[0], "", true
	}
	return fields[0], fields[1], true
}
