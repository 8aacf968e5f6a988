package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tangzhangming/jpy/internal/config"
)

// mainTemplate src/Main.java 模板
const mainTemplate = `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, jpy!");
    }
}
`

// cmdInit 初始化新项目
func cmdInit(args []string) int {
	m := Msg()
	fs := newFlagSet("init", "[options]")
	name := fs.String("name", "", m.OptName)

	if _, code := parseFlags(fs, args); code >= 0 {
		return code
	}

	// 获取当前目录
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, m.ErrGetWorkDir+"\n", err)
		return 1
	}

	cfg, err := initProject(dir, *name)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, m.InitSuccess+"\n", cfg.Project.Name)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, m.InitNextSteps)
	fmt.Fprintln(stdout, "  jpy build")
	fmt.Fprintf(stdout, "  python3 %s\n", filepath.Join(cfg.Project.OutDir, "Main.py"))
	return 0
}

// initProject 在 dir 中写入 jpy.toml 和源文件模板，已存在的源文件保持不变
func initProject(dir, name string) (*config.Config, error) {
	m := Msg()

	// 检查是否已存在配置文件
	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return nil, fmt.Errorf(m.ErrConfigExists, config.FileName)
	}

	// 生成默认配置
	cfg := config.Default(dir)
	if name != "" {
		cfg.Project.Name = name
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(m.ErrCreateConfig, err)
	}

	fmt.Fprintf(stdout, m.InitCreating+"\n", config.FileName)
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf(m.ErrCreateConfig, err)
	}

	// 创建源文件目录
	srcDir := cfg.SourcePath(dir)
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		fmt.Fprintf(stdout, m.InitCreating+"\n", cfg.Project.SourceDir+"/")
		if err := os.MkdirAll(srcDir, 0755); err != nil {
			return nil, fmt.Errorf(m.ErrCreateDir, err)
		}
	}

	// 创建 Main.java 模板
	mainPath := filepath.Join(srcDir, "Main.java")
	if _, err := os.Stat(mainPath); os.IsNotExist(err) {
		fmt.Fprintf(stdout, m.InitCreating+"\n", cfg.Project.SourceDir+"/Main.java")
		if err := os.WriteFile(mainPath, []byte(mainTemplate), 0644); err != nil {
			return nil, fmt.Errorf(m.ErrCreateFile, err)
		}
	}

	return cfg, nil
}
