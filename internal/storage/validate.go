package storage

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// recordValidator checks decoded records at the loader boundary. The engine
// assumes every record it sees has already passed these checks.
type recordValidator struct {
	validate *validator.Validate
}

func newRecordValidator() *recordValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &recordValidator{validate: v}
}

func (rv *recordValidator) summary(s *JobSummary) error {
	if err := rv.validate.Struct(s); err != nil {
		return describe(err)
	}
	return nil
}

func (rv *recordValidator) detail(d *JobDetail) error {
	if err := rv.validate.Struct(d); err != nil {
		return describe(err)
	}
	if d.ApplicationDeadline != nil && !d.ApplicationDeadline.After(d.PostedAt) {
		return fmt.Errorf("applicationDeadline %s is not after postedAt %s",
			d.ApplicationDeadline.Format("2006-01-02T15:04:05Z07:00"),
			d.PostedAt.Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}

// salary converts the on-disk salary, enforcing that all four fields are
// present together or absent together.
func salary(raw *rawSalary) (*Salary, error) {
	if raw == nil {
		return nil, nil
	}
	present := 0
	for _, set := range []bool{raw.Min != nil, raw.Max != nil, raw.Currency != nil, raw.Period != nil} {
		if set {
			present++
		}
	}
	switch present {
	case 0:
		return nil, nil
	case 4:
		return &Salary{Min: *raw.Min, Max: *raw.Max, Currency: *raw.Currency, Period: *raw.Period}, nil
	default:
		return nil, fmt.Errorf("salary has %d of 4 fields; min, max, currency and period are co-required", present)
	}
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// dropLogger collects per-record rejections so a load logs one line per
// bad record and a single summary at the end.
type dropLogger struct {
	logger  *zap.Logger
	dropped int
}

func (d *dropLogger) drop(kind, id string, index int, err error) {
	d.dropped++
	d.logger.Warn("dropping invalid record",
		zap.String("kind", kind),
		zap.String("id", id),
		zap.Int("index", index),
		zap.Error(err),
	)
}
