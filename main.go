package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/jinzhu/configor"
	"github.com/nyg123/check_coverage/check"
	"github.com/nyg123/check_coverage/coverage/lcov"
	"github.com/nyg123/check_coverage/def"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	defaultConfigPath = "coverage.json"
	envPrefix         = "CHECKCOV"
	usage             = "Usage: check_coverage [--dirs] [--config FILE] <lcov_file> <min_percentage> <target1> [target2 ...]"
)

func main() {
	defer glog.Flush()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// 参数错误、输入错误、数据错误、未达到阈值均返回 1
func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("check_coverage", pflag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	configPath := fs.StringP("config", "c", defaultConfigPath, "配置文件")
	dirs := fs.Bool("dirs", false, "按目录前缀检查")
	_ = flag.Set("logtostderr", "true")
	fs.AddGoFlagSet(flag.CommandLine)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n%s\n", err, usage)
		return 1
	}
	// glog 要求标准库 flag 已解析
	_ = flag.CommandLine.Parse(nil)

	config, err := loadConfig(*configPath, fs.Changed("config"))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if fs.Changed("dirs") {
		config.Mode = def.ModeFile
		if *dirs {
			config.Mode = def.ModeDir
		}
	}

	pos := fs.Args()
	if len(pos) < 3 {
		fmt.Fprintln(stderr, usage)
		return 1
	}
	lcovPath := pos[0]
	min, err := strconv.ParseFloat(pos[1], 64)
	if err != nil || math.IsNaN(min) {
		fmt.Fprintf(stderr, "Error: invalid min_percentage %q\n%s\n", pos[1], usage)
		return 1
	}
	targets := nonBlank(pos[2:])

	exclude, err := lcov.CompileExclude(config.UnitExclude)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch config.Mode {
	case def.ModeFile:
		return checkFiles(lcovPath, min, targets, lcov.Options{Canonical: true, Exclude: exclude}, stdout, stderr)
	case def.ModeDir:
		return checkDirs(lcovPath, min, targets, config.ShowDetail, lcov.Options{Exclude: exclude}, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unsupported mode %q\n", config.Mode)
		return 1
	}
}

func loadConfig(path string, explicit bool) (def.Config, error) {
	config := def.Config{}
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return config, errors.Wrap(err, "config")
		}
	}
	err := configor.New(&configor.Config{ENVPrefix: envPrefix}).Load(&config, path)
	if err != nil {
		return config, errors.Wrapf(err, "load config %s", path)
	}
	glog.V(1).Infof("config: %+v", config)
	return config, nil
}

func nonBlank(args []string) []string {
	var res []string
	for _, a := range args {
		if strings.TrimSpace(a) != "" {
			res = append(res, a)
		}
	}
	return res
}

// readCoverage 输入错误时输出诊断信息并返回 false
func readCoverage(path string, opts lcov.Options, stderr io.Writer) (def.CoverageFmt, bool) {
	records, err := lcov.GetCoverage(path, opts)
	switch {
	case err == nil:
		return records, true
	case errors.Is(err, lcov.ErrNotFound):
		fmt.Fprintf(stderr, "Error: LCOV output file not found at %s\n", path)
	case errors.Is(err, lcov.ErrEmpty):
		fmt.Fprintf(stderr, "Error: LCOV file %s is empty.\n", path)
	default:
		fmt.Fprintf(stderr, "Error: failed to parse %s: %v\n", path, err)
	}
	return nil, false
}

func exists(path string, stderr io.Writer) bool {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(stderr, "Error: LCOV output file not found at %s\n", path)
		return false
	}
	return true
}

func checkFiles(lcovPath string, min float64, targets []string, opts lcov.Options, stdout, stderr io.Writer) int {
	if !exists(lcovPath, stderr) {
		return 1
	}
	if len(targets) == 0 {
		fmt.Fprintln(stdout, "No target files specified for coverage check.")
		return 0
	}
	records, ok := readCoverage(lcovPath, opts, stderr)
	if !ok {
		return 1
	}
	if len(records) == 0 {
		fmt.Fprintf(stderr, "Error: No coverage data parsed from %s. Is it a valid LCOV info file?\n", lcovPath)
		return 1
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	res := check.Files(records, targets, cwd)
	if len(res) == 0 {
		check.PrintNoMatch(stderr, records, targets, cwd)
		return 1
	}
	if err := check.PrintFiles(stdout, res, min); err != nil {
		glog.V(1).Infof("threshold: %v", err)
		return 1
	}
	fmt.Fprintln(stdout, "\nAll specified files meet the line coverage threshold.")
	return 0
}

func checkDirs(lcovPath string, min float64, dirs []string, detail bool, opts lcov.Options, stdout, stderr io.Writer) int {
	if !exists(lcovPath, stderr) {
		return 1
	}
	if len(dirs) == 0 {
		fmt.Fprintln(stdout, "No target directories specified for coverage check.")
		return 0
	}
	records, ok := readCoverage(lcovPath, opts, stderr)
	if !ok {
		return 1
	}
	res := check.Dirs(records, dirs)
	if !check.HasData(res) {
		fmt.Fprintf(stderr, "ERROR: No coverage data found for the specified directories: %s\n", strings.Join(dirs, ", "))
		return 1
	}
	if err := check.PrintDirs(stdout, res, min, detail, records); err != nil {
		glog.V(1).Infof("threshold: %v", err)
		return 1
	}
	fmt.Fprintln(stdout, "\nAll specified directories meet the line coverage threshold.")
	return 0
}
