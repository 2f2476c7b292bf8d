package storage

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/matst80/node-finder/pkg/types"
)

const nodesFile = "nodes.jz"
const settingsFile = "settings.json"

// LoadEngineConfig overlays the stored engine settings on cfg. A missing
// file leaves cfg untouched.
func (d *DiskStorage) LoadEngineConfig(cfg *types.EngineConfig) error {
	err := d.LoadJson(cfg, settingsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (d *DiskStorage) SaveEngineConfig(cfg types.EngineConfig) error {
	return d.SaveJson(cfg, settingsFile)
}

// SaveNodes writes the node snapshot as a gzipped stream of JSON documents.
func (d *DiskStorage) SaveNodes(nodes []types.Node) error {
	if err := d.ensureFolder(); err != nil {
		return err
	}
	fileName, tmpFileName := d.GetFileName(nodesFile)
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipWriter := gzip.NewWriter(file)
	enc := json.NewEncoder(zipWriter)
	for i := range nodes {
		if err = enc.Encode(&nodes[i]); err != nil {
			zipWriter.Close()
			os.Remove(tmpFileName)
			return fmt.Errorf("encode node %d: %w", nodes[i].Id, err)
		}
	}
	if err = zipWriter.Close(); err != nil {
		os.Remove(tmpFileName)
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	log.Printf("Saved %d nodes to %s", len(nodes), fileName)
	return os.Rename(tmpFileName, fileName)
}

// LoadNodes streams the snapshot to the handlers in one batch.
func (d *DiskStorage) LoadNodes(handlers ...types.NodeHandler) error {
	fileName, _ := d.GetFileName(nodesFile)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	decoder := json.NewDecoder(zipReader)
	nodes := make([]types.Node, 0)
	for {
		var tmp types.Node
		if err = decoder.Decode(&tmp); err != nil {
			break
		}
		nodes = append(nodes, tmp)
	}
	if !errors.Is(err, io.EOF) {
		return err
	}
	for _, h := range handlers {
		h.HandleNodes(nodes)
	}
	log.Printf("Loaded %d nodes from %s", len(nodes), fileName)
	return nil
}

func (d *DiskStorage) SaveGzippedJson(data any, name string) error {
	if err := d.ensureFolder(); err != nil {
		return err
	}
	fileName, tmpFileName := d.GetFileName(name)
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipWriter := gzip.NewWriter(file)
	if err = json.NewEncoder(zipWriter).Encode(data); err != nil {
		zipWriter.Close()
		os.Remove(tmpFileName)
		return err
	}
	if err = zipWriter.Close(); err != nil {
		os.Remove(tmpFileName)
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadGzippedJson(data any, name string) error {
	fileName, _ := d.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = json.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *DiskStorage) SaveJson(data any, name string) error {
	if err := d.ensureFolder(); err != nil {
		return err
	}
	fileName, tmpFileName := d.GetFileName(name)
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err = enc.Encode(data); err != nil {
		os.Remove(tmpFileName)
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadJson(data any, name string) error {
	fileName, _ := d.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(data)
}
