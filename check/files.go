package check

import (
	"path/filepath"

	"github.com/golang/glog"
	"github.com/nyg123/check_coverage/def"
)

// Resolve 将目标路径按 cwd 转换为规范化的绝对路径
func Resolve(cwd, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(cwd, target)
}

// Files 按文件匹配覆盖率记录，没有记录的目标不出现在结果中。
// records 的键需要是绝对路径。
func Files(records def.CoverageFmt, targets []string, cwd string) []def.FileCoverage {
	var res []def.FileCoverage
	seen := make(map[string]bool)
	for _, target := range targets {
		abs := Resolve(cwd, target)
		if seen[abs] {
			continue
		}
		rec, ok := records[abs]
		if !ok {
			glog.V(1).Infof("no coverage record for %s (%s)", target, abs)
			continue
		}
		seen[abs] = true
		res = append(res, def.FileCoverage{
			Path:      abs,
			Display:   target,
			Lines:     def.Summary{Hit: rec.LinesHit, Found: rec.LinesFound},
			Functions: def.Summary{Hit: rec.FunctionsHit, Found: rec.FunctionsFound},
		})
	}
	return res
}
