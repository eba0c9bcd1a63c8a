// Package search 在工作目录中查找可分析的文档，并按输入模糊排序。
package search

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultLimit 是一次扫描收集的最多文件数。
const DefaultLimit = 500

// documentExts 与 document 包的白名单对应。
var documentExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".html": true,
	".htm":  true,
}

// FindDocuments returns up to limit relative paths of analyzable files under root,
// skipping hidden directories and common ignores.
func FindDocuments(root string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	paths := make([]string, 0, 32)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// 无权限的子目录直接跳过。
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "target" || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if !documentExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		if len(paths) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	return paths, err
}

// Match 返回与 query 模糊匹配的前 limit 个路径，得分高的在前；query 为空时不返回结果。
func Match(query string, paths []string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" || len(paths) == 0 {
		return nil
	}
	matches := fuzzy.Find(query, paths)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
