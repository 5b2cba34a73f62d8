// Package voc implements the PASCAL-VOC annotation data model and its XML
// decoding. One annotation file describes one image and the objects labeled
// in it.
package voc

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Annotation is a parsed PASCAL-VOC XML file.
type Annotation struct {
	// Folder is the original name of the folder containing the target image.
	// Might be stale if files were moved since labeling.
	Folder   string `xml:"folder"`
	Filename string `xml:"filename"`
	// Path is the absolute path recorded by the labeling tool. It is only
	// valid on the labeler's machine and is never used to locate the image.
	Path      string   `xml:"path"`
	Source    Source   `xml:"source"`
	Size      Size     `xml:"size"`
	Segmented Flag     `xml:"segmented"`
	Objects   []Object `xml:"object"`

	// ImagePath is derived, not parsed. The annotation and its image are
	// assumed collocated, so the declared path is replaced with a sibling
	// of the annotation file named by Filename.
	ImagePath string `xml:"-"`
}

// Source is the <source> field. All children are optional.
type Source struct {
	Database   *string `xml:"database"`
	Annotation *string `xml:"annotation"`
	Image      *string `xml:"image"`
}

// Size is the <size> field, the pixel dimensions of the target image.
type Size struct {
	Width  int `xml:"width"`
	Height int `xml:"height"`
	Depth  int `xml:"depth"`
}

// Object is one labeled object in the image.
type Object struct {
	Name      string `xml:"name"`
	Pose      string `xml:"pose"`
	Truncated Flag   `xml:"truncated"`
	Difficult Flag   `xml:"difficult"`
	BndBox    BndBox `xml:"bndbox"`
}

// BndBox is the object's bounding box in pixel coordinates. xmax/ymax >=
// xmin/ymin is assumed, not validated.
type BndBox struct {
	XMin int `xml:"xmin"`
	YMin int `xml:"ymin"`
	XMax int `xml:"xmax"`
	YMax int `xml:"ymax"`
}

// Flag is a boolean element. VOC files write flags as 0/1, but some labeling
// tools emit true/false.
type Flag bool

// UnmarshalXML implements xml.Unmarshaler.
func (f *Flag) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	switch strings.TrimSpace(raw) {
	case "0", "false":
		*f = false
	case "1", "true":
		*f = true
	default:
		return fmt.Errorf("invalid flag value %q", raw)
	}
	return nil
}

// Parse decodes one annotation from XML bytes.
func Parse(data []byte) (*Annotation, error) {
	var ann Annotation
	if err := xml.Unmarshal(data, &ann); err != nil {
		return nil, fmt.Errorf("failed to decode annotation: %w", err)
	}
	return &ann, nil
}

// ParseFile reads and decodes one annotation file and resolves the on-disk
// image path next to it.
func ParseFile(path string) (*Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation file: %w", err)
	}
	ann, err := Parse(data)
	if err != nil {
		return nil, err
	}
	ann.ImagePath = filepath.Join(filepath.Dir(path), ann.Filename)
	return ann, nil
}
