package payment

import (
	"github.com/shopspring/decimal"
)

// LineItemFor prices one work entry by its project's payment model. It
// reports false when the entry yields no positive amount. The amount keeps
// full precision; only the payment total is rounded to cents.
func LineItemFor(entry WorkEntry) (LineItem, bool) {
	var quantity decimal.Decimal
	var rate *decimal.Decimal
	switch entry.PaymentModel {
	case ModelHourly:
		if entry.HoursWorked == nil || *entry.HoursWorked <= 0 {
			return LineItem{}, false
		}
		quantity, rate = decimal.NewFromFloat(*entry.HoursWorked), entry.HourlyRateAnnotation
	case ModelPerAsset:
		if entry.AssetsCompleted == nil || *entry.AssetsCompleted <= 0 {
			return LineItem{}, false
		}
		quantity, rate = decimal.NewFromInt(int64(*entry.AssetsCompleted)), entry.PerAssetRateAnnotation
	case ModelPerObject:
		if entry.TasksCompleted == nil || *entry.TasksCompleted <= 0 {
			return LineItem{}, false
		}
		quantity, rate = decimal.NewFromInt(int64(*entry.TasksCompleted)), entry.PerObjectRateAnnotation
	default:
		return LineItem{}, false
	}

	r := decimal.Zero
	if rate != nil {
		r = *rate
	}
	amount := quantity.Mul(r)
	if !amount.IsPositive() {
		return LineItem{}, false
	}

	projectID := entry.ProjectID
	return LineItem{
		ProjectID:        &projectID,
		ProjectCode:      entry.ProjectCode,
		ProjectName:      entry.ProjectName,
		Description:      entry.ProjectName + " - " + entry.PaymentModel + " work",
		WorkDate:         entry.RecordDate,
		HoursWorked:      entry.HoursWorked,
		AssetsCompleted:  entry.AssetsCompleted,
		ObjectsAnnotated: entry.TasksCompleted,
		Rate:             r,
		RateType:         entry.PaymentModel,
		Amount:           amount,
	}, true
}

// Calculate prices every entry and sums the included amounts. The total is
// rounded to cents once, after summing. No entries yields an empty list and
// a zero total.
func Calculate(entries []WorkEntry) ([]LineItem, decimal.Decimal) {
	items := []LineItem{}
	total := decimal.Zero
	for _, entry := range entries {
		item, ok := LineItemFor(entry)
		if !ok {
			continue
		}
		items = append(items, item)
		total = total.Add(item.Amount)
	}
	return items, total.Round(centScale)
}

type aggregates struct {
	hours   float64
	assets  int
	objects int
	amount  decimal.Decimal
}

func sumLineItems(items []LineItem) aggregates {
	agg := aggregates{amount: decimal.Zero}
	for _, item := range items {
		agg.amount = agg.amount.Add(item.Amount)
		if item.HoursWorked != nil {
			agg.hours += *item.HoursWorked
		}
		if item.AssetsCompleted != nil {
			agg.assets += *item.AssetsCompleted
		}
		if item.ObjectsAnnotated != nil {
			agg.objects += *item.ObjectsAnnotated
		}
	}
	agg.amount = agg.amount.Round(centScale)
	return agg
}

func positiveFloat(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func positiveInt(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}
