package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultIncludes — состав полезной нагрузки приложения.
var DefaultIncludes = []string{
	"app.py",
	"data_loader.py",
	"stock_indicator.py",
	"requirements.txt",
	"README.md",
	"templates",
	"static",
	"logs",
	"data",
}

// Исключаемые артефакты при копировании директорий.
var excludedNames = map[string]bool{
	"__pycache__": true,
	".git":        true,
}

// Artifact — результат сборки.
type Artifact struct {
	// StagingDir — директория с разложенной полезной нагрузкой.
	StagingDir string

	// ArchivePath — путь к zip-артефакту.
	ArchivePath string

	// FileCount — количество файлов в архиве.
	FileCount int
}

// Builder собирает артефакт развёртывания.
type Builder struct {
	sourceDir string
	outputDir string
	includes  []string
	logger    *slog.Logger
}

// Config — конфигурация Builder.
type Config struct {
	// SourceDir — директория с исходниками приложения.
	SourceDir string

	// OutputDir — куда класть staging и архив.
	OutputDir string

	// Includes — состав полезной нагрузки (default: DefaultIncludes).
	Includes []string

	Logger *slog.Logger
}

// NewBuilder создаёт Builder.
func NewBuilder(cfg Config) *Builder {
	includes := cfg.Includes
	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		sourceDir: cfg.SourceDir,
		outputDir: cfg.OutputDir,
		includes:  includes,
		logger:    logger,
	}
}

// Build собирает staging-директорию и zip-архив.
//
// Staging пересоздаётся с нуля при каждой сборке. Отсутствующие
// элементы из Includes пропускаются с предупреждением: не в каждом
// чекауте есть logs/ или data/.
func (b *Builder) Build(now time.Time) (*Artifact, error) {
	staging := filepath.Join(b.outputDir, "deploy_windows")

	if err := os.RemoveAll(staging); err != nil {
		return nil, fmt.Errorf("clear staging dir: %w", err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	for _, item := range b.includes {
		src := filepath.Join(b.sourceDir, item)
		dst := filepath.Join(staging, item)

		info, err := os.Stat(src)
		if err != nil {
			b.logger.Warn("payload item missing, skipping", "item", item)
			continue
		}

		if info.IsDir() {
			err = copyTree(src, dst)
		} else {
			err = copyFile(src, dst)
		}
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", item, err)
		}
		b.logger.Info("copied payload item", "item", item)
	}

	if err := b.writeScripts(staging); err != nil {
		return nil, err
	}

	// Служебные директории приложения
	for _, dir := range []string{"logs", "data"} {
		if err := os.MkdirAll(filepath.Join(staging, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", dir, err)
		}
	}

	archive := filepath.Join(b.outputDir,
		fmt.Sprintf("stock-analysis-windows-%s.zip", now.Format("20060102-150405")))

	count, err := zipTree(staging, archive)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}

	b.logger.Info("bundle built", "archive", archive, "files", count)

	return &Artifact{
		StagingDir:  staging,
		ArchivePath: archive,
		FileCount:   count,
	}, nil
}

// writeScripts записывает стартовые скрипты и production-конфиг.
func (b *Builder) writeScripts(staging string) error {
	files := map[string]string{
		"start.bat": startBat,
		"start.ps1": startPS1,
		"config.py": configPy,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(staging, name), []byte(content), 0o755); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name := info.Name()
		if info.IsDir() && excludedNames[name] {
			return filepath.SkipDir
		}
		if !info.IsDir() && strings.HasSuffix(name, ".pyc") {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

// zipTree упаковывает директорию в zip и возвращает количество файлов.
func zipTree(dir, archive string) (int, error) {
	f, err := os.Create(archive)
	if err != nil {
		return 0, err
	}

	w := zip.NewWriter(f)
	var count int

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		fw, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()

		if _, err := io.Copy(fw, in); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		w.Close()
		f.Close()
		os.Remove(archive)
		return 0, err
	}

	if err := w.Close(); err != nil {
		f.Close()
		return 0, err
	}
	return count, f.Close()
}
