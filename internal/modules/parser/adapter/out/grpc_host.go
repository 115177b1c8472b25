package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	parserrpc "leaflog/internal/modules/parser/adapter/out/rpc"
	"leaflog/internal/modules/parser/domain"
	parserout "leaflog/internal/modules/parser/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
	// Parsing a large document is the slow path; give plugins more room.
	parseCallTimeout = 30 * time.Second
)

type GRPCHost struct{}

func NewGRPCHost() parserout.PluginHost {
	return &GRPCHost{}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetInfo(callCtx); err != nil {
		return fmt.Errorf("get info: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetInfo(ctx context.Context, manifest domain.Manifest) (domain.PluginInfo, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.PluginInfo{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	info, err := client.GetInfo(callCtx)
	if err != nil {
		return domain.PluginInfo{}, fmt.Errorf("get info: %w", err)
	}
	return domain.PluginInfo{Name: info.Name, Version: info.Version, Formats: info.Formats}, nil
}

func (h *GRPCHost) ParseChapters(ctx context.Context, manifest domain.Manifest, filePath, format string) ([]domain.Chapter, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, parseCallTimeout)
	defer cancel()
	response, err := client.ParseChapters(callCtx, &parserrpc.ParseRequest{FilePath: filePath, Format: format})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s", domain.ErrParserTimeout, manifest.Name)
		}
		return nil, fmt.Errorf("parse chapters: %w", err)
	}
	out := make([]domain.Chapter, 0, len(response.Chapters))
	for _, chapter := range response.Chapters {
		out = append(out, domain.Chapter{
			Index:   chapter.Index,
			Title:   chapter.Title,
			Content: chapter.Content,
		})
	}
	return out, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest, startTimeout time.Duration) (parserrpc.ParserPluginClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  parserrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          parserrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(parserrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(parserrpc.ParserPluginClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
