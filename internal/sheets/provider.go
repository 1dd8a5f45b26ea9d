package sheets

import (
	"context"
	"sync"

	"lottrack/internal/model"
)

// Provider 延迟初始化的客户端提供者
// 凭证问题在首次访问表格时暴露为该次请求的失败，不阻塞服务启动
type Provider struct {
	mu              sync.Mutex
	credentialsFile string
	client          *Client
}

// NewProvider 创建提供者
func NewProvider(credentialsFile string) *Provider {
	return &Provider{credentialsFile: credentialsFile}
}

func (p *Provider) get(ctx context.Context) (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	client, err := NewClient(ctx, p.credentialsFile)
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

// FetchRows 见 Client.FetchRows
func (p *Provider) FetchRows(ctx context.Context, ref SheetRef) ([]model.Row, error) {
	client, err := p.get(ctx)
	if err != nil {
		return nil, &FetchError{Ref: ref.SpreadsheetID, Err: err}
	}
	return client.FetchRows(ctx, ref)
}

// AppendRows 见 Client.AppendRows
func (p *Provider) AppendRows(ctx context.Context, ref SheetRef, values [][]interface{}) error {
	client, err := p.get(ctx)
	if err != nil {
		return &FetchError{Ref: ref.SpreadsheetID, Err: err}
	}
	return client.AppendRows(ctx, ref, values)
}
