package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// statsEntrySchemaJSON describes one agent's value in stats.json.
const statsEntrySchemaJSON = `{
  "type": "object",
  "required": ["totalLaunches", "successfulLaunches", "failedLaunches"],
  "properties": {
    "totalLaunches": {"type": "integer", "minimum": 0},
    "successfulLaunches": {"type": "integer", "minimum": 0},
    "failedLaunches": {"type": "integer", "minimum": 0},
    "averageDurationSeconds": {"type": "number", "minimum": 0},
    "lastLaunch": {"type": ["string", "null"]},
    "isFavorite": {"type": "boolean"},
    "launchHistory": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["timestamp", "success"],
        "properties": {
          "timestamp": {"type": "string"},
          "success": {"type": "boolean"},
          "durationSeconds": {"type": "number", "minimum": 0},
          "sessionType": {"type": "string"},
          "errorMessage": {"type": ["string", "null"]},
          "sessionId": {"type": "string"}
        }
      }
    }
  }
}`

var (
	statsSchemaOnce sync.Once
	statsSchema     *gojsonschema.Schema
	statsSchemaErr  error
)

// validateStatsEntry checks one agent's value from stats.json against the
// entry schema. Values that are not JSON at all are reported as ErrParse too.
func validateStatsEntry(data []byte) error {
	statsSchemaOnce.Do(func() {
		statsSchema, statsSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(statsEntrySchemaJSON))
	})
	if statsSchemaErr != nil {
		return fmt.Errorf("stats schema: %w", statsSchemaErr)
	}
	return validate(statsSchema, data)
}

func validate(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: schema validation failed: %s", ErrParse, dumpErrors(errs))
}

func dumpErrors(errs []string) string {
	if len(errs) > 3 {
		return strings.Join(errs[:3], "; ") + fmt.Sprintf(" ... and %d more", len(errs)-3)
	}
	return strings.Join(errs, "; ")
}
