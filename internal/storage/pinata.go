package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Pin 描述一次成功上传后的可检索地址。
type Pin struct {
	FileName   string `json:"file_name"`
	CID        string `json:"cid"`
	GatewayURL string `json:"gateway_url"`
}

// Uploader 抽象内容寻址的文件上传服务。
type Uploader interface {
	Upload(ctx context.Context, fileName string, content []byte) (Pin, error)
}

// PinataConfig 配置 Pinata 上传客户端。
type PinataConfig struct {
	BaseURL      string
	GatewayURL   string
	APIKey       string
	SecretAPIKey string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// PinataClient 通过 Pinata pinFileToIPFS 接口上传文件到 IPFS。
type PinataClient struct {
	cfg        PinataConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPinataClient 根据配置创建上传客户端。
func NewPinataClient(cfg PinataConfig, logger *zap.Logger) (*PinataClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.SecretAPIKey) == "" {
		return nil, errors.New("pinata api key 不能为空")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.pinata.cloud"
	}
	if strings.TrimSpace(cfg.GatewayURL) == "" {
		cfg.GatewayURL = "https://gateway.pinata.cloud/ipfs"
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PinataClient{cfg: cfg, httpClient: client, logger: logger}, nil
}

// Upload 上传文件并返回 CID 与网关链接。
func (c *PinataClient) Upload(ctx context.Context, fileName string, content []byte) (Pin, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return Pin{}, fmt.Errorf("构建上传表单失败: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return Pin{}, fmt.Errorf("写入上传内容失败: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Pin{}, fmt.Errorf("关闭上传表单失败: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/pinning/pinFileToIPFS"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return Pin{}, fmt.Errorf("构建上传请求失败: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("pinata_api_key", c.cfg.APIKey)
	req.Header.Set("pinata_secret_api_key", c.cfg.SecretAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Pin{}, fmt.Errorf("上传到 IPFS 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Pin{}, fmt.Errorf("pinata 返回状态码 %d", resp.StatusCode)
	}

	var result struct {
		IpfsHash string `json:"IpfsHash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Pin{}, fmt.Errorf("解析 pinata 响应失败: %w", err)
	}
	if result.IpfsHash == "" {
		return Pin{}, errors.New("pinata 响应缺少 IpfsHash")
	}

	pin := Pin{
		FileName:   fileName,
		CID:        result.IpfsHash,
		GatewayURL: fmt.Sprintf("%s/%s", strings.TrimRight(c.cfg.GatewayURL, "/"), result.IpfsHash),
	}
	c.logger.Info("导出文件已上传", zap.String("file", fileName), zap.String("cid", pin.CID))
	return pin, nil
}
