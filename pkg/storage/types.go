package storage

import (
	"fmt"
	"os"
	"path"
	"time"
)

type DiskStorage struct {
	Scope      string
	RootFolder string
}

func NewDiskStorage(scope, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Scope:      scope,
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, ds.Scope, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

func (ds *DiskStorage) ensureFolder() error {
	return os.MkdirAll(path.Join(ds.RootFolder, ds.Scope), 0o755)
}
