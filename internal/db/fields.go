package db

import "time"

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

func boolField(data map[string]interface{}, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func timeField(data map[string]interface{}, key string) time.Time {
	t, _ := data[key].(time.Time)
	return t
}

// setIfNotEmpty keeps optional fields out of the stored document instead of writing "".
func setIfNotEmpty(data map[string]interface{}, key, value string) {
	if value != "" {
		data[key] = value
	}
}
