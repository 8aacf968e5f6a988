// Package cache 为项目构建缓存翻译结果
//
// 缓存以源文件内容和翻译选项的 BLAKE2b 哈希为键，命中时直接复用上次生成的
// Python 代码。索引保存在缓存目录下的 index.json 中。
package cache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/encoding/json"
	"golang.org/x/crypto/blake2b"
)

const (
	// Version 缓存格式版本，版本不匹配时清空缓存
	Version = "1"

	// DefaultDir 默认缓存目录
	DefaultDir = ".jpy-cache"

	// MaxEntries 最大缓存条目数
	MaxEntries = 1000

	// MaxSize 最大缓存大小（字节）
	MaxSize = 64 * 1024 * 1024

	indexFile = "index.json"
	codeExt   = ".py"
)

// Cache 翻译缓存，可被多个 goroutine 同时使用
type Cache struct {
	mu      sync.RWMutex
	dir     string
	index   *Index
	enabled bool
}

// Index 缓存索引
type Index struct {
	Version   string            `json:"version"`
	Entries   map[string]*Entry `json:"entries"`
	TotalSize int64             `json:"total_size"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Entry 缓存条目
type Entry struct {
	SourcePath  string    `json:"source_path"`
	Key         string    `json:"key"` // 内容与选项的组合哈希
	File        string    `json:"file"`
	Size        int64     `json:"size"`
	CachedAt    time.Time `json:"cached_at"`
	AccessedAt  time.Time `json:"accessed_at"`
	AccessCount int       `json:"access_count"`
}

// Stats 缓存统计信息
type Stats struct {
	Entries   int
	TotalSize int64
	Dir       string
	UpdatedAt time.Time
}

// New 在 workDir 下打开（或创建）缓存目录
func New(workDir string) (*Cache, error) {
	dir := filepath.Join(workDir, DefaultDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{dir: dir, enabled: true}
	if err := c.loadIndex(); err != nil || c.index.Version != Version {
		// 索引损坏或版本不符时从空缓存开始
		c.index = newIndex()
		c.removeFiles()
	}
	return c, nil
}

func newIndex() *Index {
	return &Index{Version: Version, Entries: make(map[string]*Entry)}
}

// Dir 缓存目录
func (c *Cache) Dir() string {
	return c.dir
}

// SetEnabled 启用或禁用缓存，禁用后 Get 总是未命中，Put 不做任何事
func (c *Cache) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Enabled 是否启用
func (c *Cache) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// ============================================================================
// 读写
// ============================================================================

// Key 计算源代码与选项指纹的组合哈希
func Key(source, fingerprint string) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

// Get 查找 sourcePath 的缓存结果，内容或选项变化时视为未命中
func (c *Cache) Get(sourcePath, source, fingerprint string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return "", false
	}

	entry, ok := c.index.Entries[sourcePath]
	if !ok {
		return "", false
	}
	if entry.Key != Key(source, fingerprint) {
		c.removeEntry(sourcePath)
		return "", false
	}

	data, err := os.ReadFile(filepath.Join(c.dir, entry.File))
	if err != nil {
		c.removeEntry(sourcePath)
		return "", false
	}

	entry.AccessedAt = time.Now()
	entry.AccessCount++
	return string(data), true
}

// Put 记录 sourcePath 的翻译结果
func (c *Cache) Put(sourcePath, source, fingerprint, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return nil
	}

	key := Key(source, fingerprint)
	name := fileName(sourcePath, key)
	if err := os.WriteFile(filepath.Join(c.dir, name), []byte(code), 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	if old, ok := c.index.Entries[sourcePath]; ok && old.File != name {
		c.removeEntry(sourcePath)
	} else if ok {
		c.index.TotalSize -= old.Size
	}

	now := time.Now()
	entry := &Entry{
		SourcePath:  sourcePath,
		Key:         key,
		File:        name,
		Size:        int64(len(code)),
		CachedAt:    now,
		AccessedAt:  now,
		AccessCount: 1,
	}
	c.index.Entries[sourcePath] = entry
	c.index.TotalSize += entry.Size
	c.index.UpdatedAt = now

	c.cleanupIfNeeded()
	return nil
}

// Invalidate 使缓存条目失效
func (c *Cache) Invalidate(sourcePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeEntry(sourcePath)
}

// Clear 清空所有缓存
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeFiles()
	c.index = newIndex()
	return c.saveIndex()
}

// Flush 把索引写回磁盘
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveIndex()
}

// Stats 获取缓存统计
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:   len(c.index.Entries),
		TotalSize: c.index.TotalSize,
		Dir:       c.dir,
		UpdatedAt: c.index.UpdatedAt,
	}
}

// ============================================================================
// 内部方法（调用方持有锁）
// ============================================================================

func (c *Cache) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(c.dir, indexFile))
	if err != nil {
		return err
	}
	index := newIndex()
	if err := json.Unmarshal(data, index); err != nil {
		return err
	}
	if index.Entries == nil {
		index.Entries = make(map[string]*Entry)
	}
	c.index = index
	return nil
}

func (c *Cache) saveIndex() error {
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.dir, indexFile), data, 0644); err != nil {
		return fmt.Errorf("write cache index: %w", err)
	}
	return nil
}

// fileName 由源文件路径哈希与内容哈希组成
func fileName(sourcePath, key string) string {
	sum := blake2b.Sum256([]byte(sourcePath))
	return hex.EncodeToString(sum[:8]) + "_" + key[:16] + codeExt
}

func (c *Cache) removeEntry(sourcePath string) {
	entry, ok := c.index.Entries[sourcePath]
	if !ok {
		return
	}
	os.Remove(filepath.Join(c.dir, entry.File))
	c.index.TotalSize -= entry.Size
	delete(c.index.Entries, sourcePath)
}

func (c *Cache) removeFiles() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == codeExt {
			os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
}

func (c *Cache) cleanupIfNeeded() {
	if len(c.index.Entries) > MaxEntries {
		c.evict(len(c.index.Entries)-MaxEntries, 0)
	}
	if c.index.TotalSize > MaxSize {
		c.evict(len(c.index.Entries), c.index.TotalSize-MaxSize)
	}
}

// evict 按最久未访问的顺序删除条目
//
// 删除 count 个条目；reduce > 0 时删够 reduce 字节即停止。
func (c *Cache) evict(count int, reduce int64) {
	entries := make([]*Entry, 0, len(c.index.Entries))
	for _, e := range c.index.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AccessedAt.Before(entries[j].AccessedAt)
	})

	var reduced int64
	for i := 0; i < count && i < len(entries); i++ {
		if reduce > 0 && reduced >= reduce {
			break
		}
		reduced += entries[i].Size
		c.removeEntry(entries[i].SourcePath)
	}
}
