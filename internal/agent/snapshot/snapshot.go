// SPDX-License-Identifier: Apache-2.0

// Package snapshot builds the immutable structural description of the
// target project that planning and execution consume. It is a read-only
// probe; nothing here mutates the project.
package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/masonworks/mason/internal/core/models"
)

// Options bounds the probe to the project's layout.
type Options struct {
	SchemasDir string
	APIDir     string
	MaxDepth   int
}

func (o *Options) applyDefaults() {
	if o.SchemasDir == "" {
		o.SchemasDir = "schemas"
	}
	if o.APIDir == "" {
		o.APIDir = "api"
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = 4
	}
}

// Directories never worth describing to the planner.
var alwaysSkipped = map[string]bool{
	"node_modules": true,
	".git":         true,
	".mason":       true,
	".next":        true,
	"dist":         true,
	"build":        true,
}

var tableRegex = regexp.MustCompile(`pgTable\(\s*"([A-Za-z0-9_]+)"`)

var componentDirs = []string{
	"components",
	filepath.Join("src", "components"),
	filepath.Join("app", "components"),
}

// Build probes the project rooted at root and returns its snapshot.
func Build(root string, opts Options) (*models.ContextSnapshot, error) {
	opts.applyDefaults()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error reading project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	snap := &models.ContextSnapshot{
		Framework:    "unknown",
		Dependencies: map[string]string{},
		Structure:    map[string][]string{},
	}

	readDependencies(root, snap)
	snap.Framework = detectFramework(snap.Dependencies)

	if _, err := os.Stat(filepath.Join(root, "tsconfig.json")); err == nil {
		snap.HasTypedSource = true
	}

	matcher := ignoreRules(root)
	if err := walkStructure(root, opts.MaxDepth, matcher, snap); err != nil {
		return nil, err
	}

	readDatabase(root, opts.SchemasDir, snap)
	readSchemas(root, opts.SchemasDir, snap)
	readEndpoints(root, opts.APIDir, snap)
	readUIModules(root, snap)

	return snap, nil
}

func readDependencies(root string, snap *models.ContextSnapshot) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if json.Unmarshal(data, &pkg) != nil {
		return
	}

	for name, version := range pkg.Dependencies {
		snap.Dependencies[name] = version
	}
	for name, version := range pkg.DevDependencies {
		snap.Dependencies[name] = version
	}
}

func detectFramework(deps map[string]string) string {
	switch {
	case deps["next"] != "":
		return "next"
	case deps["react"] != "":
		return "react"
	case deps["vue"] != "":
		return "vue"
	case deps["express"] != "":
		return "express"
	}
	return "unknown"
}

// ignoreRules compiles the project's .gitignore, if any.
func ignoreRules(root string) *ignore.GitIgnore {
	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}

func walkStructure(root string, maxDepth int, matcher *ignore.GitIgnore, snap *models.ContextSnapshot) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if alwaysSkipped[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if strings.Count(rel, "/") >= maxDepth {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			dir = ""
		}
		snap.Structure[dir] = append(snap.Structure[dir], rel)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error walking project structure: %w", err)
	}

	for dir := range snap.Structure {
		sort.Strings(snap.Structure[dir])
	}
	return nil
}

func readDatabase(root, schemasDir string, snap *models.ContextSnapshot) {
	provider := ""
	switch {
	case snap.Dependencies["pg"] != "" || snap.Dependencies["postgres"] != "":
		provider = "postgresql"
	case snap.Dependencies["mysql2"] != "":
		provider = "mysql"
	case snap.Dependencies["better-sqlite3"] != "" || snap.Dependencies["sqlite3"] != "":
		provider = "sqlite"
	}

	var schemaFiles []string
	entries, err := os.ReadDir(filepath.Join(root, schemasDir))
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ts") {
				continue
			}
			schemaFiles = append(schemaFiles, filepath.ToSlash(filepath.Join(schemasDir, entry.Name())))
		}
	}

	if provider == "" && len(schemaFiles) == 0 {
		return
	}
	snap.Database = &models.DatabaseInfo{
		Provider:    provider,
		SchemaFiles: schemaFiles,
	}
}

func readSchemas(root, schemasDir string, snap *models.ContextSnapshot) {
	entries, err := os.ReadDir(filepath.Join(root, schemasDir))
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".ts") || name == "index.ts" {
			continue
		}

		rel := filepath.ToSlash(filepath.Join(schemasDir, name))
		info := models.SchemaInfo{
			Name: strings.TrimSuffix(name, ".ts"),
			Path: rel,
		}

		if data, err := os.ReadFile(filepath.Join(root, schemasDir, name)); err == nil {
			for _, match := range tableRegex.FindAllStringSubmatch(string(data), -1) {
				info.Tables = append(info.Tables, match[1])
			}
		}

		snap.ExistingSchemas = append(snap.ExistingSchemas, info)
	}
}

func readEndpoints(root, apiDir string, snap *models.ContextSnapshot) {
	base := filepath.Join(root, apiDir)
	_ = filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "route.") || strings.HasPrefix(name, "handler.") {
			if rel, relErr := filepath.Rel(root, path); relErr == nil {
				snap.EndpointPaths = append(snap.EndpointPaths, filepath.ToSlash(rel))
			}
		}
		return nil
	})
	sort.Strings(snap.EndpointPaths)
}

func readUIModules(root string, snap *models.ContextSnapshot) {
	for _, dir := range componentDirs {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				continue
			}
			if strings.HasSuffix(name, ".tsx") || strings.HasSuffix(name, ".jsx") {
				snap.UIModulePaths = append(snap.UIModulePaths,
					filepath.ToSlash(filepath.Join(dir, name)))
			}
		}
	}
	sort.Strings(snap.UIModulePaths)
}
