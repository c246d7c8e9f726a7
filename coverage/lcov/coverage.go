package lcov

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/nyg123/check_coverage/def"
	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("lcov file not found")
	ErrEmpty     = errors.New("lcov file is empty")
	ErrMalformed = errors.New("malformed lcov record")
)

const (
	tagSourceFile = "SF:"
	tagLineData   = "DA:"
	tagFuncFound  = "FNF:"
	tagFuncHit    = "FNH:"
	tagEnd        = "end_of_record"
)

// Options 控制解析行为
type Options struct {
	// Canonical 为 true 时 SF 路径转换为绝对路径（按文件检查），否则保留原样（按目录检查）
	Canonical bool
	Exclude   []*regexp.Regexp
}

// CompileExclude 编译配置中的排除正则
func CompileExclude(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		reg, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "unit_exclude %q", p)
		}
		res = append(res, reg)
	}
	return res, nil
}

// GetCoverage 读取并解析覆盖率文件
func GetCoverage(path string, opts Options) (def.CoverageFmt, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(data) == "" {
		return nil, errors.Wrap(ErrEmpty, path)
	}
	return Parse(data, opts)
}

func readAll(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(ErrNotFound, path)
		}
		return "", errors.Wrapf(err, "open %s", path)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)
	data, err := ioutil.ReadAll(file)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

// builder 顺序扫描时累积的状态
type builder struct {
	opts    Options
	records def.CoverageFmt
	active  *def.Record
	skip    bool // 当前记录被 unit_exclude 排除
}

// Parse 解析 LCOV 文本
func Parse(data string, opts Options) (def.CoverageFmt, error) {
	b := &builder{opts: opts, records: make(def.CoverageFmt)}
	for i, line := range strings.Split(data, "\n") {
		if err := b.line(strings.TrimRight(line, "\r")); err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
	}
	if glog.V(1) {
		glog.Infof("parsed %d lcov records", len(b.records))
	}
	return b.records, nil
}

func (b *builder) line(s string) error {
	switch {
	case strings.HasPrefix(s, tagSourceFile):
		return b.sourceFile(s[len(tagSourceFile):])
	case s == tagEnd:
		b.active = nil
		b.skip = false
	case strings.HasPrefix(s, tagLineData):
		hits, err := parseHits(s[len(tagLineData):])
		if err != nil {
			return err
		}
		if b.orphan(s) {
			return nil
		}
		b.active.LinesFound++
		if hits > 0 {
			b.active.LinesHit++
		}
	case strings.HasPrefix(s, tagFuncFound):
		n, err := parseCount(s[len(tagFuncFound):])
		if err != nil {
			return err
		}
		if !b.orphan(s) {
			b.active.FunctionsFound = n
		}
	case strings.HasPrefix(s, tagFuncHit):
		n, err := parseCount(s[len(tagFuncHit):])
		if err != nil {
			return err
		}
		if !b.orphan(s) {
			b.active.FunctionsHit = n
		}
	}
	return nil
}

func (b *builder) sourceFile(path string) error {
	if b.opts.Canonical {
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", path)
		}
		path = abs
	}
	b.skip = false
	for _, reg := range b.opts.Exclude {
		if reg.MatchString(path) {
			glog.V(1).Infof("exclude %s (%s)", path, reg)
			b.active = nil
			b.skip = true
			return nil
		}
	}
	rec, ok := b.records[path]
	if !ok {
		rec = &def.Record{}
		b.records[path] = rec
	}
	b.active = rec
	return nil
}

// orphan 没有当前记录的数据行直接忽略
func (b *builder) orphan(s string) bool {
	if b.active != nil {
		return false
	}
	if !b.skip {
		glog.Warningf("ignore %q outside of a source file record", s)
	}
	return true
}

// parseHits DA:line_number,hit_count[,checksum]，hit_count 可能带有 ;checksum 后缀
func parseHits(payload string) (int, error) {
	parts := strings.Split(payload, ",")
	if len(parts) < 2 {
		return 0, errors.Wrapf(ErrMalformed, "DA:%s: missing hit count", payload)
	}
	field := strings.SplitN(parts[1], ";", 2)[0]
	hits, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "DA:%s: %v", payload, err)
	}
	return hits, nil
}

func parseCount(payload string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "%v", err)
	}
	return n, nil
}
