package check

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nyg123/check_coverage/def"
)

// PrintFiles 输出按文件检查的结果，返回阈值检查错误
func PrintFiles(w io.Writer, res []def.FileCoverage, min float64) error {
	err := FilesBelow(res, min)
	failed := byTarget(err)
	for _, f := range res {
		fmt.Fprintf(w, "Coverage for %s:\n", f.Display)
		fmt.Fprintf(w, "  Lines: %.2f%% (%d/%d)\n", f.Lines.Percent(), f.Lines.Hit, f.Lines.Found)
		fmt.Fprintf(w, "  Functions: %.2f%% (%d/%d)\n", f.Functions.Percent(), f.Functions.Hit, f.Functions.Found)
		if b, ok := failed[f.Display]; ok {
			fmt.Fprintf(w, "  ERROR: %s\n", b)
		}
	}
	return err
}

// PrintDirs 输出按目录检查的结果，返回阈值检查错误
func PrintDirs(w io.Writer, res []def.DirCoverage, min float64, detail bool, records def.CoverageFmt) error {
	err := DirsBelow(res, min)
	failed := byTarget(err)
	for _, d := range res {
		fmt.Fprintf(w, "Coverage for %s: %.2f%%\n", d.Dir, d.Lines.Percent())
		if detail {
			for _, path := range d.Files {
				rec := records[path]
				fmt.Fprintf(w, "    %s (%d/%d)\n", path, rec.LinesHit, rec.LinesFound)
			}
		}
		if b, ok := failed[d.Dir]; ok {
			fmt.Fprintf(w, "  ERROR: %s\n", b)
		}
	}
	return err
}

// PrintNoMatch 没有任何目标文件匹配时输出已解析的路径
func PrintNoMatch(w io.Writer, records def.CoverageFmt, targets []string, cwd string) {
	fmt.Fprintf(w, "ERROR: None of the specified target files were found in the LCOV report: %s\n", strings.Join(targets, ", "))
	fmt.Fprintln(w, "LCOV SF entries are absolute. Parsed LCOV SF paths include:")
	paths := records.Paths()
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	example := "N/A"
	if len(targets) > 0 {
		example = Resolve(cwd, targets[0])
	}
	fmt.Fprintf(w, "Target files were resolved to absolute paths like: %s\n", example)
}

func byTarget(err error) map[string]*BelowError {
	res := make(map[string]*BelowError)
	for _, b := range Failures(err) {
		res[b.Target] = b
	}
	return res
}
