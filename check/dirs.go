package check

import (
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/nyg123/check_coverage/def"
)

// Dirs 按目录前缀汇总行覆盖率。
// 每条记录只归属于按传入顺序第一个匹配的目录。
func Dirs(records def.CoverageFmt, dirs []string) []def.DirCoverage {
	res := make([]def.DirCoverage, len(dirs))
	for i, dir := range dirs {
		res[i].Dir = dir
	}
	for path, rec := range records {
		for i, dir := range dirs {
			if !strings.HasPrefix(path, dir) {
				continue
			}
			res[i].Lines.Hit += rec.LinesHit
			res[i].Lines.Found += rec.LinesFound
			res[i].Files = append(res[i].Files, path)
			break
		}
	}
	for i := range res {
		sort.Strings(res[i].Files)
		glog.V(1).Infof("%s: %d files, %d/%d lines", res[i].Dir, len(res[i].Files), res[i].Lines.Hit, res[i].Lines.Found)
	}
	return res
}

// HasData 是否有任意记录归属到目录
func HasData(res []def.DirCoverage) bool {
	for _, d := range res {
		if len(d.Files) > 0 {
			return true
		}
	}
	return false
}
