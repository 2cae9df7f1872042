package config

import (
	"reflect"
	"strings"
)

// SettingsExample uses reflection to generate example settings.
// It stays in sync when new fields are added to Settings.
func SettingsExample() map[string]any {
	t := reflect.TypeOf(Settings{})
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}
		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = exampleValue(field.Type, jsonName)
	}

	return example
}

func exampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		switch t.Elem().Kind() {
		case reflect.Bool:
			return false
		case reflect.Int:
			switch fieldName {
			case "event_buffer_size":
				return 64
			case "max_log_files":
				return 1000
			case "operation_timeout_seconds":
				return 30
			case "sync_concurrency":
				return 4
			}
			return 10
		}
	}

	if t.Kind() == reflect.String {
		switch fieldName {
		case "account":
			return "octocat"
		case "db_path":
			return "~/.prcache/cache.db"
		case "feed_addr":
			return "127.0.0.1:7419"
		case "github_token":
			return "ghp_..."
		default:
			return "example"
		}
	}

	return nil
}
