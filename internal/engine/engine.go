// Package engine generates starter projects from the embedded templates.
package engine

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/driquet/ezinit/internal/database"
	"github.com/driquet/ezinit/internal/fsutil"
	"github.com/driquet/ezinit/internal/greeting"
	"github.com/driquet/ezinit/internal/placeholder"
	"github.com/driquet/ezinit/internal/template"
	"github.com/driquet/ezinit/internal/ui"
	"go.uber.org/zap"
)

// Engine renders templates and writes generated projects.
type Engine struct {
	config    Config
	db        database.Database
	ui        ui.UI
	logger    *zap.Logger
	catalog   *template.Catalog
	overrides map[template.Language]map[string]string
}

var (
	ErrTemplateUnknown = errors.New("template not found")
	ErrFileUnknown     = errors.New("template file not found")
	ErrOverrideUnknown = errors.New("override not found")
	ErrFileExists      = errors.New("file already exists")
	ErrUnresolvedToken = errors.New("unresolved placeholder token")
	ErrNotInteractive  = errors.New("missing value and no interactive terminal")
)

const (
	overwriteYes = "yes, overwrite"
	overwriteNo  = "no, abort"
)

// NewEngine creates a new Engine.
// It loads the embedded templates, their usage counts and overrides, and
// sets up the UI named by config.DefaultUI. A nil logger discards logs.
func NewEngine(db database.Database, config Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := template.LoadCatalog()
	if err != nil {
		return nil, err
	}

	counts, err := db.GetUsageCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to load usage counts: %w", err)
	}

	overrides := make(map[template.Language]map[string]string)
	for lang, t := range catalog.Templates() {
		t.Count = counts[string(lang)]

		o, err := db.GetOverrides(string(lang))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s overrides: %w", lang, err)
		}
		if o == nil {
			o = make(map[string]string)
		}
		overrides[lang] = o
	}

	return &Engine{
		config:    config,
		db:        db,
		ui:        newUI(config),
		logger:    logger,
		catalog:   catalog,
		overrides: overrides,
	}, nil
}

func newUI(config Config) ui.UI {
	switch config.DefaultUI {
	case "rofi":
		return ui.NewRofiUI(config.Rofi)
	case "fuzzy":
		return ui.NewFuzzy(ui.FuzzyConfig{})
	default:
		return ui.NewTerminalUI()
	}
}

// Languages returns the languages of the available templates.
func (e *Engine) Languages() []template.Language {
	return e.catalog.Languages()
}

// Get retrieves a template by language and returns whether it was found.
func (e *Engine) Get(lang template.Language) (*template.Template, bool) {
	return e.catalog.Get(lang)
}

// SelectTemplate prompts the user to select a template.
func (e *Engine) SelectTemplate() (template.Language, error) {
	return e.ui.SelectTemplate(e.catalog.Templates())
}

func (e *Engine) lookup(lang template.Language) (*template.Template, error) {
	t, found := e.catalog.Get(lang)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrTemplateUnknown, lang)
	}
	return t, nil
}

// TemplateFile returns the unrendered content of a template file, with its
// override applied.
func (e *Engine) TemplateFile(lang template.Language, path string) (string, error) {
	t, err := e.lookup(lang)
	if err != nil {
		return "", err
	}

	f, found := t.File(path)
	if !found {
		return "", fmt.Errorf("%w: %s/%s", ErrFileUnknown, lang, path)
	}

	if content, ok := e.overrides[lang][path]; ok {
		return content, nil
	}
	return f.Content, nil
}

// renderedFile is a template file after substitution.
type renderedFile struct {
	from string
	template.File
}

// render substitutes the tokens of every file of the template and checks
// that the rendered source still carries the greeting.
func (e *Engine) render(lang template.Language, project string) ([]renderedFile, placeholder.Values, error) {
	t, err := e.lookup(lang)
	if err != nil {
		return nil, nil, err
	}

	values, err := placeholder.NewValues(project)
	if err != nil {
		return nil, nil, err
	}

	files := make([]renderedFile, 0, len(t.Files))
	for _, f := range t.Files {
		content, err := e.TemplateFile(lang, f.Path)
		if err != nil {
			return nil, nil, err
		}

		if missing := values.Missing(f.Path + "\n" + content); len(missing) > 0 {
			return nil, nil, fmt.Errorf("%w in %s: %v", ErrUnresolvedToken, f.Path, missing)
		}

		rendered := renderedFile{
			from: f.Path,
			File: template.File{
				Path:    values.Apply(f.Path),
				Content: values.Apply(content),
			},
		}

		if f.Path == t.Source {
			if err := greeting.Verify(rendered.Content, lang.DisplayName()); err != nil {
				return nil, nil, fmt.Errorf("rendered %s: %w", rendered.Path, err)
			}
		}

		files = append(files, rendered)
	}

	return files, values, nil
}

// Render returns the files of the lang template rendered for project.
func (e *Engine) Render(lang template.Language, project string) ([]template.File, error) {
	rendered, _, err := e.render(lang, project)
	if err != nil {
		return nil, err
	}

	files := make([]template.File, 0, len(rendered))
	for _, r := range rendered {
		files = append(files, r.File)
	}
	return files, nil
}

// RenderFile returns a single rendered file. path is the template path,
// before substitution (e.g. "include/__NAME__/hello.h").
func (e *Engine) RenderFile(lang template.Language, path string, project string) (template.File, error) {
	rendered, _, err := e.render(lang, project)
	if err != nil {
		return template.File{}, err
	}

	for _, r := range rendered {
		if r.from == path {
			return r.File, nil
		}
	}
	return template.File{}, fmt.Errorf("%w: %s/%s", ErrFileUnknown, lang, path)
}

// GenerateOptions holds options for project generation.
type GenerateOptions struct {
	// Language of the template. When empty, the configured default
	// language is used, then the user is asked.
	Language template.Language
	// ProjectName is the display name. When empty, the user is asked.
	ProjectName string
	// OutputDir defaults to the project identifier in the working directory.
	OutputDir string
	// Force overwrites existing files without asking.
	Force bool
	// Interactive allows the engine to prompt through the UI.
	Interactive bool
}

// Result describes a generated project.
type Result struct {
	Project *database.Project
	// Files are the absolute paths of the written files.
	Files []string
}

// Generate renders a template and writes it to disk.
// Existing files are only overwritten with Force or after confirmation.
// If a write fails, the files created so far are removed; files that were
// overwritten before the failure are not restored.
// The usage count and history are updated after the files are written;
// failures there are logged, not returned.
func (e *Engine) Generate(opts GenerateOptions) (*Result, error) {
	lang, err := e.resolveLanguage(opts)
	if err != nil {
		return nil, err
	}

	project := opts.ProjectName
	if project == "" {
		if !opts.Interactive {
			return nil, fmt.Errorf("%w: project name", ErrNotInteractive)
		}
		project, err = e.ui.Prompt("Project name")
		if err != nil {
			return nil, err
		}
	}

	files, values, err := e.render(lang, project)
	if err != nil {
		return nil, err
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = values[placeholder.Name]
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var paths, conflicts []string
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f.Path))
		paths = append(paths, p)

		exists, err := fsutil.Exists(p)
		if err != nil {
			return nil, err
		}
		if exists {
			conflicts = append(conflicts, p)
		}
	}

	if len(conflicts) > 0 && !opts.Force {
		if err := e.confirmOverwrite(dir, conflicts, opts.Interactive); err != nil {
			return nil, err
		}
	}

	if err := e.writeFiles(dir, files, paths, conflicts); err != nil {
		return nil, err
	}

	if err := e.incrementUsageCount(lang); err != nil {
		e.logger.Warn("failed to increment usage count", zap.String("language", string(lang)), zap.Error(err))
	}

	p := &database.Project{
		Name:     values[placeholder.ProjectName],
		Language: string(lang),
		Path:     dir,
	}
	if err := e.db.RecordProject(p); err != nil {
		e.logger.Warn("failed to record project", zap.String("name", p.Name), zap.Error(err))
	}

	e.logger.Info("project generated",
		zap.String("name", p.Name),
		zap.String("language", string(lang)),
		zap.String("path", dir),
		zap.Int("files", len(paths)))

	return &Result{Project: p, Files: paths}, nil
}

// writeFiles writes files to paths. When a write fails, the files created
// by this call are removed along with the directories below dir left
// empty. Overwritten files keep their new content.
func (e *Engine) writeFiles(dir string, files []renderedFile, paths, existing []string) error {
	var created []string

	for i, f := range files {
		err := os.MkdirAll(filepath.Dir(paths[i]), 0755)
		if err != nil {
			err = fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		} else if err = fsutil.WriteFileAtomic(paths[i], []byte(f.Content), 0644); err != nil {
			err = fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		if err != nil {
			if cleanupErr := removeCreated(dir, created); cleanupErr != nil {
				return errors.Join(err, fmt.Errorf("failed to remove partial project: %w", cleanupErr))
			}
			e.logger.Debug("partial project removed", zap.Strings("files", created))
			return err
		}

		if !slices.Contains(existing, paths[i]) {
			created = append(created, paths[i])
		}
		e.logger.Debug("file written", zap.String("path", paths[i]))
	}

	return nil
}

// removeCreated removes files, then every directory between them and root
// that is left empty. root itself is kept.
func removeCreated(root string, files []string) error {
	prefix := root + string(filepath.Separator)

	var errs []error
	for _, p := range files {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			continue
		}
		for d := filepath.Dir(p); strings.HasPrefix(d, prefix); d = filepath.Dir(d) {
			// Fails on the first directory still holding something.
			if os.Remove(d) != nil {
				break
			}
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) resolveLanguage(opts GenerateOptions) (template.Language, error) {
	lang := opts.Language
	if lang == "" {
		lang = template.Language(e.config.DefaultLanguage)
	}

	if lang == "" {
		if !opts.Interactive {
			return "", fmt.Errorf("%w: language", ErrNotInteractive)
		}
		return e.SelectTemplate()
	}

	if _, err := e.lookup(lang); err != nil {
		return "", err
	}
	return lang, nil
}

func (e *Engine) confirmOverwrite(dir string, conflicts []string, interactive bool) error {
	if !interactive {
		return fmt.Errorf("%w: %s", ErrFileExists, conflicts[0])
	}

	prompt := fmt.Sprintf("%d file(s) already exist in %s. Overwrite?", len(conflicts), dir)
	choice, err := e.ui.Select(prompt, []string{overwriteNo, overwriteYes})
	if err != nil {
		return err
	}
	if choice != overwriteYes {
		return fmt.Errorf("%w: %s", ErrFileExists, conflicts[0])
	}
	return nil
}

func (e *Engine) incrementUsageCount(lang template.Language) error {
	t, err := e.lookup(lang)
	if err != nil {
		return err
	}
	t.Count++

	return e.db.IncUsageCount(string(lang))
}

// Overrides returns the overridden files of a template, keyed by path.
func (e *Engine) Overrides(lang template.Language) (map[string]string, error) {
	if _, err := e.lookup(lang); err != nil {
		return nil, err
	}
	return maps.Clone(e.overrides[lang]), nil
}

// SetOverride replaces the content of a template file. The content may use
// the same placeholder tokens as the embedded file.
func (e *Engine) SetOverride(lang template.Language, path, content string) error {
	t, err := e.lookup(lang)
	if err != nil {
		return err
	}

	if _, found := t.File(path); !found {
		return fmt.Errorf("%w: %s/%s", ErrFileUnknown, lang, path)
	}

	if content == "" {
		return errors.New("empty override content")
	}

	if unknown := placeholder.Unknown(path + "\n" + content); len(unknown) > 0 {
		return fmt.Errorf("%w in %s: %v", ErrUnresolvedToken, path, unknown)
	}

	if err := e.db.SetOverride(string(lang), path, content); err != nil {
		return err
	}
	e.overrides[lang][path] = content

	return nil
}

// DeleteOverride restores the embedded content of a template file.
func (e *Engine) DeleteOverride(lang template.Language, path string) error {
	if _, err := e.lookup(lang); err != nil {
		return err
	}

	if _, found := e.overrides[lang][path]; !found {
		return fmt.Errorf("%w: %s/%s", ErrOverrideUnknown, lang, path)
	}

	if err := e.db.DeleteOverride(string(lang), path); err != nil {
		return err
	}
	delete(e.overrides[lang], path)

	return nil
}

// History returns the generated projects, newest first.
func (e *Engine) History() ([]*database.Project, error) {
	return e.db.ListProjects()
}
