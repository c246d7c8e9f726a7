package check

import (
	"fmt"
	"math"
	"strconv"

	"github.com/nyg123/check_coverage/def"
	"go.uber.org/multierr"
)

// BelowError 行覆盖率低于阈值
type BelowError struct {
	Target  string
	Percent float64
	Min     float64
}

func (e *BelowError) Error() string {
	return fmt.Sprintf("Line coverage for %s (%.2f%%) is below the required %s%%", e.Target, e.Percent, formatMin(e.Min))
}

// formatMin 整数阈值保留一位小数，如 80.0
func formatMin(min float64) string {
	if min == math.Trunc(min) {
		return strconv.FormatFloat(min, 'f', 1, 64)
	}
	return strconv.FormatFloat(min, 'f', -1, 64)
}

// FilesBelow 返回所有低于阈值的文件，全部达标时返回 nil
func FilesBelow(res []def.FileCoverage, min float64) error {
	var err error
	for _, f := range res {
		if p := f.Lines.Percent(); p < min {
			err = multierr.Append(err, &BelowError{Target: f.Display, Percent: p, Min: min})
		}
	}
	return err
}

// DirsBelow 返回所有低于阈值的目录，全部达标时返回 nil
func DirsBelow(res []def.DirCoverage, min float64) error {
	var err error
	for _, d := range res {
		if p := d.Lines.Percent(); p < min {
			err = multierr.Append(err, &BelowError{Target: d.Dir, Percent: p, Min: min})
		}
	}
	return err
}

// Failures 拆分阈值检查的错误
func Failures(err error) []*BelowError {
	var res []*BelowError
	for _, e := range multierr.Errors(err) {
		if b, ok := e.(*BelowError); ok {
			res = append(res, b)
		}
	}
	return res
}
