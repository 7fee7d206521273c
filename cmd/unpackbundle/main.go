// Command unpackbundle restores a bundle from an artifact without the rest of
// the bundlepack CLI. It prints which transform the artifact used and how much
// it expanded.
package main

import (
	"fmt"
	"os"

	"github.com/dargueta/bundlepack/archive"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s ARTIFACT BUNDLE\n", os.Args[0])
		os.Exit(1)
	}

	summary, err := unpack(os.Args[1], os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println(summary)
}

// unpack decodes the artifact at `artifactPath` into `bundlePath` and returns
// a one-line summary. The bundle is written only after a successful decode, so
// a bad artifact leaves no partial file behind.
func unpack(artifactPath, bundlePath string) (string, error) {
	artifact, err := os.ReadFile(artifactPath)
	if err != nil {
		return "", err
	}

	header, _, err := archive.ParseHeader(artifact)
	if err != nil {
		return "", fmt.Errorf("%s is not a bundlepack artifact: %w", artifactPath, err)
	}

	bundle, err := archive.Decompress(artifact)
	if err != nil {
		return "", fmt.Errorf("decoding %s (%s): %w", artifactPath, header.Mode, err)
	}

	if err = os.WriteFile(bundlePath, bundle, 0o644); err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"%s: %s, %d bytes -> %s: %d bytes",
		artifactPath,
		header.Mode,
		len(artifact),
		bundlePath,
		len(bundle),
	), nil
}
