package def

// Record 单个源文件的覆盖率计数
type Record struct {
	LinesHit       int
	LinesFound     int
	FunctionsHit   int
	FunctionsFound int
}

// CoverageFmt 源文件路径 -> 覆盖率计数
type CoverageFmt map[string]*Record

// Paths 返回所有已解析的源文件路径
func (c CoverageFmt) Paths() []string {
	paths := make([]string, 0, len(c))
	for p := range c {
		paths = append(paths, p)
	}
	return paths
}

type Summary struct {
	Hit   int
	Found int
}

// Percent found 为 0 时视为全部覆盖
func (s Summary) Percent() float64 {
	if s.Found == 0 {
		return 100.0
	}
	return float64(s.Hit) * 100 / float64(s.Found)
}

type FileCoverage struct {
	Path      string // 绝对路径
	Display   string // 调用方传入的路径
	Lines     Summary
	Functions Summary
}

type DirCoverage struct {
	Dir   string
	Lines Summary
	Files []string // 归属到该目录的源文件
}
