package memimg

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

var (
	foods      = make(map[string]image.Image)
	foodsMutex sync.RWMutex
)

// LoadFoods 载入食物图标到内存，文件名为key
func LoadFoods(directory string) error {
	loaded := make(map[string]image.Image)
	err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isImage(path) {
			return nil
		}
		img, err := LoadImage(path)
		if err != nil {
			log.Printf("skip food image %s: %v", path, err)
			return nil
		}
		loaded[filepath.Base(path)] = img
		return nil
	})
	if err != nil {
		return err
	}

	foodsMutex.Lock()
	foods = loaded
	foodsMutex.Unlock()
	return nil
}

func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// WatchFoods 检测食物目录并热更新到内存，直到ctx结束
func WatchFoods(ctx context.Context, directory string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return fmt.Errorf("watch %s: %w", directory, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isImage(event.Name) {
				continue
			}
			name := filepath.Base(event.Name)
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create:
				img, err := LoadImage(event.Name)
				if err != nil {
					continue
				}
				foodsMutex.Lock()
				foods[name] = img
				foodsMutex.Unlock()
			case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
				foodsMutex.Lock()
				delete(foods, name)
				foodsMutex.Unlock()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("food watcher error: %v", err)
		}
	}
}

func GetFoodFromMemory(filename string) (image.Image, bool) {
	foodsMutex.RLock()
	img, exists := foods[filename]
	foodsMutex.RUnlock()
	return img, exists
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
