package metrics

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

type metricAdder func(metric, group string, tags map[string]string) prometheus.Gauge

var gaugeType = reflect.TypeOf((*prometheus.Gauge)(nil)).Elem()

func equalType(a, b interface{}) bool {
	hadThis := reflect.TypeOf(a)
	nowThis := reflect.TypeOf(b)
	return hadThis == nowThis
}

func scanStruct(parent string, adder metricAdder, m interface{}) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Type().Kind() != reflect.Struct {
		panic(fmt.Sprintf("scanStruct requires a pointer to a struct, got: %T", m))
	}
	scanTags(parent, adder, rv.Elem())
}

func scanTags(parent string, adder metricAdder, pointedStruct reflect.Value) {
	structType := pointedStruct.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		pointedField := pointedStruct.Field(i)

		if !pointedField.CanSet() {
			continue
		}

		tags := fieldTags(field)
		metric := tags["metric"]
		group := joinName(parent, tags["group"])

		if metric == "" {
			if pointedField.Kind() == reflect.Struct {
				scanTags(group, adder, pointedField)
			}
			continue
		}

		if pointedField.Type() != gaugeType || !pointedField.IsNil() {
			continue
		}

		pointedField.Set(reflect.ValueOf(adder(metric, group, tags)))
	}
}

func joinName(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, "_")
}

// fieldTags decodes field tags that decorate the struct.
// Supported tags are:
//   - metric: the metric name
//   - group: builds an additional prefix to the metric (e.g. {namespace}_{group}_{metric})
//   - description: adds this description to the metric
//   - unit: the base unit of the metric, appended to its name (e.g. bytes, seconds)
func fieldTags(field reflect.StructField) map[string]string {
	tags := make(map[string]string, 4)
	if metric, ok := field.Tag.Lookup("metric"); ok {
		tags["metric"] = metric
	}
	if unit, ok := field.Tag.Lookup("unit"); ok {
		tags["unit"] = unit
	}
	if group, ok := field.Tag.Lookup("group"); ok {
		tags["group"] = group
	}
	if description, ok := field.Tag.Lookup("description"); ok {
		tags["description"] = description
	}
	return tags
}
