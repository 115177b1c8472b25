package main

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/hashicorp/go-plugin"

	parserrpc "leaflog/internal/modules/parser/adapter/out/rpc"
)

// Reference parser plugin: handles plain-text files, splitting chapters on
// form-feed characters. Serves as the contract example for real parsers.
type server struct{}

func (s *server) GetInfo(_ context.Context, _ *parserrpc.Empty) (*parserrpc.Info, error) {
	return &parserrpc.Info{
		Name:    "reference",
		Version: "1.0.0",
		Formats: []string{"text"},
	}, nil
}

func (s *server) ParseChapters(_ context.Context, in *parserrpc.ParseRequest) (*parserrpc.ParseResponse, error) {
	if in.Format != "text" {
		return nil, fmt.Errorf("unsupported format: %s", in.Format)
	}
	payload, err := os.ReadFile(in.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	chapters := []parserrpc.Chapter{}
	for _, chunk := range strings.Split(string(payload), "\f") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		chapters = append(chapters, parserrpc.Chapter{
			Index:   len(chapters),
			Title:   fmt.Sprintf("Section %d", len(chapters)+1),
			Content: "<pre>" + html.EscapeString(chunk) + "</pre>",
		})
	}
	return &parserrpc.ParseResponse{Chapters: chapters}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: parserrpc.HandshakeConfig,
		Plugins:         parserrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
