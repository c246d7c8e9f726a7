package def

const (
	ModeFile = "file" // 按文件检查
	ModeDir  = "dir"  // 按目录检查
)

type Config struct {
	Mode        string   `json:"mode" yaml:"mode" default:"file"` // 检查模式 file|dir
	UnitExclude []string `json:"unit_exclude" yaml:"unit_exclude"` // 需要排除的覆盖率文件，正则匹配 SF 路径
	ShowDetail  bool     `json:"show_detail" yaml:"show_detail"`   // 目录模式下是否展示每个文件的明细
}
