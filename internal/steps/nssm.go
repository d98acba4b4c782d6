package steps

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/fetch"
	"github.com/shaiso/Conveyor/internal/pipeline"
)

// EnsureNSSM обеспечивает наличие nssm.exe на хосте.
//
// Если бинарник уже на месте, сетевого обращения нет вовсе.
// Иначе: скачать фиксированный релиз, распаковать, положить
// nssm.exe (win64 приоритетно) в <AppDir>\nssm, удалить архив.
type EnsureNSSM struct {
	env *Env
}

// NewEnsureNSSM создаёт шаг получения NSSM.
func NewEnsureNSSM(env *Env) *EnsureNSSM {
	return &EnsureNSSM{env: env}
}

func (s *EnsureNSSM) Name() string { return "ensure-nssm" }

func (s *EnsureNSSM) Run(ctx context.Context) (domain.StepOutcome, error) {
	spec := s.env.Spec

	if _, err := os.Stat(spec.NSSMExe()); err == nil {
		return domain.StepSkipped, nil
	}

	if err := s.acquire(ctx); err != nil {
		return domain.StepFailed, fmt.Errorf("%w: %v", pipeline.ErrToolAcquisition, err)
	}
	return domain.StepChanged, nil
}

func (s *EnsureNSSM) acquire(ctx context.Context) error {
	spec := s.env.Spec
	archive := filepath.Join(spec.AppDir, "nssm.zip")

	if err := s.env.Fetcher.Download(ctx, spec.NSSMURL, archive); err != nil {
		return err
	}

	staging, err := os.MkdirTemp(spec.AppDir, ".nssm-extract-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := fetch.ExtractZip(archive, staging); err != nil {
		return err
	}

	exe, err := fetch.FindFile(staging, "nssm.exe", "win64")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(spec.NSSMDir(), 0o755); err != nil {
		return fmt.Errorf("create nssm dir: %w", err)
	}
	if err := copyFile(exe, spec.NSSMExe()); err != nil {
		return err
	}

	// Архив после распаковки не нужен
	if err := os.Remove(archive); err != nil {
		s.env.log().Warn("failed to remove downloaded archive", "path", archive, "error", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("copy %s: %w", src, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", dst, closeErr)
	}
	return nil
}
