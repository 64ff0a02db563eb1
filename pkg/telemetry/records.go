/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// RecordMetrics instruments the user record store operations
type RecordMetrics struct {
	OperationTotal    *Counter
	ErrorTotal        *Counter
	OperationDuration *Histogram
}

func NewRecordMetrics(meter otelmetric.Meter) (*RecordMetrics, error) {
	operationTotal, err := NewCounter(meter, MetricOptions{
		Name: BuildMetricName("record_operation", MetricNameSuffixTotal),
		Description: "total number of record store operations by operation and outcome. " +
			"duplicate and not found outcomes are counted here, not as errors",
		Unit: "1",
	})
	if err != nil {
		return nil, err
	}

	errorTotal, err := NewCounter(meter, MetricOptions{
		Name: BuildMetricName("record_operation_error", MetricNameSuffixTotal),
		Description: "total number of record store operations that failed on the cache. " +
			"error% = addressbook_record_operation_error_total / addressbook_record_operation_total",
		Unit: "1",
	})
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, MetricOptions{
		Name:        BuildMetricName("record_operation", MetricNameSuffixDuration),
		Description: "duration of record store operations including the cache round trip",
		Unit:        "s",
	})
	if err != nil {
		return nil, err
	}

	return &RecordMetrics{
		OperationTotal:    operationTotal,
		ErrorTotal:        errorTotal,
		OperationDuration: duration,
	}, nil
}

// RecordOperation records one completed store operation. Safe on a nil receiver.
func (rm *RecordMetrics) RecordOperation(ctx context.Context, operation, outcome string, start time.Time, err error) {
	if rm == nil {
		return
	}

	status := StatusSuccess
	if err != nil {
		status = StatusError
		rm.ErrorTotal.Inc(ctx, WithOperation(operation))
	}

	rm.OperationTotal.Inc(ctx, WithOperation(operation), WithOutcome(outcome), WithStatus(status))
	rm.OperationDuration.Record(ctx, time.Since(start).Seconds(), WithOperation(operation), WithStatus(status))
}

// RegisterCollectionSizeGauge exposes the number of stored records, sized by the callback
func RegisterCollectionSizeGauge(meter otelmetric.Meter, size func(context.Context) (int, error)) (*Gauge, error) {
	return NewGauge(meter, MetricOptions{
		Name:        BuildMetricName("record_collection_size", ""),
		Description: "number of user records currently stored",
		Unit:        "1",
	}, func(ctx context.Context) (float64, []attribute.KeyValue) {
		n, err := size(ctx)
		if err != nil {
			return 0, []attribute.KeyValue{WithStatus(StatusError)}
		}
		return float64(n), []attribute.KeyValue{WithStatus(StatusSuccess)}
	})
}
