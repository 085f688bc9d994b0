package types

// JSONMap is a free-form JSON object column, stored via GORM's json serializer.
type JSONMap map[string]any
