package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/ByLCY/linklabel/config"
	"github.com/ByLCY/linklabel/dsl"
	"github.com/ByLCY/linklabel/label"
	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/preview"
	"github.com/ByLCY/linklabel/renderer"
	canvasrenderer "github.com/ByLCY/linklabel/renderer/canvas"
	termrenderer "github.com/ByLCY/linklabel/renderer/term"
)

var version = "dev"

// options 汇总命令行参数。
type options struct {
	input         string
	output        string
	debug         string
	debugRawUnits bool
	data          string
	config        string
	initConfig    bool
	label         string
	hit           string
	open          bool
	term          bool
	preview       bool
	debugBoxes    bool
	verbose       bool
}

func main() {
	var o options
	flag.StringVar(&o.input, "in", "examples/demo.label", "DSL 文件路径")
	flag.StringVar(&o.output, "out", "output/demo.pdf", "PDF 输出路径")
	flag.StringVar(&o.debug, "debug", "", "布局调试 JSON 输出路径")
	flag.BoolVar(&o.debugRawUnits, "debug-raw-units", false, "在调试 JSON 中输出 debug.rawUnits 影子字段")
	flag.StringVar(&o.data, "data", "", "绑定到 DSL 的 JSON 数据")
	flag.StringVar(&o.config, "config", "", "配置文件路径（默认 "+config.DefaultPath+"）")
	flag.BoolVar(&o.initConfig, "init-config", false, "写入默认配置文件后退出")
	flag.StringVar(&o.label, "label", "", "-hit/-open 作用的标签名（默认第一个）")
	flag.StringVar(&o.hit, "hit", "", "命中测试坐标 x,y（pt，标签左上角为原点）")
	flag.BoolVar(&o.open, "open", false, "打开 -hit 命中的链接")
	flag.BoolVar(&o.term, "term", false, "在终端输出标签")
	flag.BoolVar(&o.preview, "preview", false, "交互式终端预览")
	flag.BoolVar(&o.debugBoxes, "debug-boxes", false, "在 PDF 中描出文本占用区域")
	flag.BoolVar(&o.verbose, "v", false, "输出调试日志")
	showVersion := flag.Bool("version", false, "显示版本")
	flag.Parse()

	if *showVersion {
		fmt.Println("linklabel", version)
		return
	}
	setupLogging(o.verbose)

	if o.initConfig {
		path, created, err := writeDefaultConfig(o.config)
		if err != nil {
			exitError(err)
		}
		if !created {
			fmt.Printf("配置文件已存在：%s（如需重新生成请先删除）\n", path)
			return
		}
		fmt.Printf("已写入配置：%s\n", path)
		return
	}

	cfg, err := config.Load(o.config)
	if err != nil {
		exitError(err)
	}
	if o.preview && !isatty.IsTerminal(os.Stdout.Fd()) {
		exitError(errors.New("-preview 需要在终端中运行"))
	}

	var inputData any
	if o.data != "" {
		if err := json.Unmarshal([]byte(o.data), &inputData); err != nil {
			exitError(errors.Wrap(err, "解析 data JSON 失败"))
		}
	}

	if err := run(o, cfg, inputData, os.Stdout); err != nil {
		exitError(err)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func exitError(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// writeDefaultConfig 写入默认配置；文件已存在时不覆盖，created 为 false。
func writeDefaultConfig(path string) (full string, created bool, err error) {
	full, err = config.Path(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(full); err == nil {
		return full, false, nil
	}
	if err := config.DefaultConfig().Save(full); err != nil {
		return "", false, err
	}
	return full, true, nil
}

// run 串联解析、布局，再按参数选择命中测试、终端输出、预览或 PDF。
func run(o options, cfg *config.Config, data any, stdout io.Writer) error {
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:    filepath.Dir(o.input),
		DebugBoxes: o.debugBoxes,
	})
	result, err := build(o, cfg, data, r)
	if err != nil {
		return err
	}

	if o.debug != "" {
		if err := writeDebug(result, o.debug); err != nil {
			return err
		}
	}

	switch {
	case o.hit != "":
		return hit(o, cfg, result, r, stdout)
	case o.term || o.preview:
		hover, err := cfg.HoverColor()
		if err != nil {
			return err
		}
		tr := termrenderer.New(hover)
		if o.preview {
			return errors.Wrap(preview.Run(preview.New(result, tr, cfg.SystemOpener())), "终端预览失败")
		}
		return writeRendered(tr, result, stdout)
	}

	if err := os.MkdirAll(filepath.Dir(o.output), 0o755); err != nil {
		return errors.Wrap(err, "创建输出目录失败")
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return errors.Wrap(err, "渲染 PDF 失败")
	}
	if err := os.WriteFile(o.output, pdfBytes, 0o644); err != nil {
		return errors.Wrap(err, "写入 PDF 文件失败")
	}
	fmt.Fprintf(stdout, "已生成 PDF：%s\n", o.output)
	return nil
}

func build(o options, cfg *config.Config, data any, ts layout.Typesetter) (*layout.Result, error) {
	file, err := os.Open(o.input)
	if err != nil {
		return nil, errors.Wrapf(err, "无法打开 DSL 文件 %s", o.input)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, errors.Wrap(err, "解析 DSL 失败")
	}
	defaults, err := cfg.Defaults()
	if err != nil {
		return nil, err
	}
	result, err := layout.Build(doc, data, layout.BuildOptions{
		Typesetter: ts,
		Defaults:   defaults,
		Debug:      layout.DebugOptions{RawUnits: o.debugRawUnits},
	})
	return result, errors.Wrap(err, "布局计算失败")
}

func hit(o options, cfg *config.Config, result *layout.Result, ts layout.Typesetter, stdout io.Writer) error {
	lr, ok := result.Label(o.label)
	if !ok {
		return errors.Errorf("找不到标签 %q", o.label)
	}
	pt, err := parsePoint(o.hit)
	if err != nil {
		return err
	}
	l := label.FromResult(lr, layout.TypesetEngine{Typesetter: ts}, cfg.SystemOpener())

	res := l.OnPointerActivated(pt, lr.Params)
	if o.open && res.Hit {
		var opened bool
		res, opened = l.Activate(pt, lr.Params)
		if !opened {
			return errors.Errorf("无法打开链接 %s", res.URL)
		}
	}
	if !res.Hit {
		fmt.Fprintln(stdout, "no link")
		return nil
	}
	fmt.Fprintf(stdout, "%s [%d,%d)\n", res.URL, res.Span.Start, res.Span.End)
	return nil
}

func writeRendered(r renderer.Renderer, result *layout.Result, stdout io.Writer) error {
	out, err := r.Render(result)
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}

// parsePoint 解析 "x,y"，单位 pt；也接受带单位的写法，如 "10mm,5mm"。
func parsePoint(v string) (layout.Point, error) {
	xs, ys, ok := strings.Cut(v, ",")
	if !ok {
		return layout.Point{}, errors.Errorf("-hit 需要 x,y 格式：%q", v)
	}
	x, err := parseCoord(xs)
	if err != nil {
		return layout.Point{}, err
	}
	y, err := parseCoord(ys)
	if err != nil {
		return layout.Point{}, err
	}
	return layout.Point{X: x, Y: y}, nil
}

func parseCoord(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f, nil
	}
	l, err := layout.ParseLength(v)
	if err != nil {
		return 0, errors.Wrapf(err, "-hit 坐标无效：%q", v)
	}
	return l.ToPT(), nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return errors.Wrap(err, "创建调试目录失败")
	}
	return errors.Wrap(layout.WriteDebugJSON(result, debugPath), "输出调试 JSON 失败")
}
