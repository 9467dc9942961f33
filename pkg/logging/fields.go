package logging

import (
	"time"
)

// Field is a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Graph field helpers

func Component(name string) Field {
	return String("component", name)
}

func GraphID(id string) Field {
	return String("graph_id", id)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Edges(m int) Field {
	return Int("edges", m)
}

// Depth records the depth of a graph in a multilevel collapse
func Depth(level int) Field {
	return Int("level", level)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
