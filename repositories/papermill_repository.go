package repositories

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/notebooker/backend/utils"
)

// PapermillRepository runs a notebook template through the papermill CLI.
// Parameters are passed base64-encoded so arbitrary override values survive
// the shell boundary.
type PapermillRepository struct {
	binary    string
	outputDir string
	kernel    string
}

func NewPapermillRepository(binary, outputDir, kernel string) PapermillRepository {
	if binary == "" {
		binary = "papermill"
	}
	return PapermillRepository{binary: binary, outputDir: outputDir, kernel: kernel}
}

func (repo PapermillRepository) ExecuteNotebook(
	ctx context.Context,
	templatePath string,
	resultId uuid.UUID,
	parameters map[string]any,
) (string, error) {
	if err := os.MkdirAll(repo.outputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "can't create output directory")
	}
	outputPath := filepath.Join(repo.outputDir, resultId.String()+".ipynb")

	encoded, err := json.Marshal(parameters)
	if err != nil {
		return "", errors.Wrap(err, "can't encode notebook parameters")
	}

	args := []string{
		templatePath,
		outputPath,
		"-b", base64.StdEncoding.EncodeToString(encoded),
	}
	if repo.kernel != "" {
		args = append(args, "-k", repo.kernel)
	}

	cmd := exec.CommandContext(ctx, repo.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Executing notebook",
		"template", templatePath, "result_id", resultId.String())

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "papermill failed: %s", stderr.String())
	}
	return outputPath, nil
}
