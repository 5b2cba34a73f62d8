// Package voc2tfrecord compiles a directory tree of PASCAL-VOC object
// detection annotations into the files a TensorFlow training pipeline
// consumes: a label map and two TFRecord streams, a training set and a
// test set.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		"github.com/menta2k/voc2tfrecord"
//	)
//
//	func main() {
//		report, err := voc2tfrecord.Prepare("./dataset", "./out", 20)
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Print(report.String())
//	}
//
// The package consists of these main components:
//
//  1. Partitioner (pkg/partition): deterministic, content-hash-based
//     train/test splitting. Identical image bytes always land on the same
//     side, across runs and machines, so splits are reproducible without
//     any random seed.
//  2. Label map (pkg/labelmap): stable label-to-id enumeration, persisted as
//     the label_map.txt the object detection pipeline expects.
//  3. Parser (pkg/voc): the PASCAL-VOC XML annotation model.
//  4. Encoder (pkg/encode, pkg/tfexample): flattens each annotation into the
//     fixed tensorflow.Example feature schema.
//  5. Record writer (pkg/tfrecord): the length-delimited, CRC-32C-protected
//     TFRecord framing, byte-for-byte compatible with TensorFlow readers.
//  6. Orchestrator (pkg/prepare): sequences the pipeline and produces a run
//     report.
//
// Annotations are expected to sit next to their images, named by the
// annotation's filename field. Examples with unreadable or unsupported
// images are dropped and counted, never fatal.
package voc2tfrecord

import (
	"github.com/menta2k/voc2tfrecord/pkg/prepare"
)

// Version of the voc2tfrecord library
const Version = "1.0.0"

// Prepare compiles the PASCAL-VOC dataset under inputDir into TFRecord files
// in outputDir. testRatio is the integer percentage of data placed in the
// test set. It returns a report of what was written, skipped and dropped.
func Prepare(inputDir, outputDir string, testRatio int) (*prepare.Report, error) {
	return prepare.Run(prepare.Options{
		Input:     inputDir,
		Output:    outputDir,
		TestRatio: testRatio,
	})
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
