//go:build integration
// +build integration

// TestDaemon 管理独立 voyagent 服务进程的启动与关闭
package framework

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// testAPIKey 占位 API Key，仅为通过配置校验
// 集成测试只覆盖不触达 OpenAI 的路径
const testAPIKey = "sk-test-integration"

// TestDaemon 测试守护进程
type TestDaemon struct {
	Name     string // 角色名称（如 "server"）
	HTTPPort int    // HTTP 端口
	DataDir  string // 数据目录（隔离）

	cmd      *exec.Cmd
	baseURL  string
	extraEnv []string
}

// DaemonOption 守护进程配置选项
type DaemonOption func(*TestDaemon)

// WithEnv 追加环境变量（如指向真实 OpenAI/Qdrant 的配置）
func WithEnv(key, value string) DaemonOption {
	return func(d *TestDaemon) {
		d.extraEnv = append(d.extraEnv, fmt.Sprintf("%s=%s", key, value))
	}
}

// NewTestDaemon 创建测试守护进程
func NewTestDaemon(binaryPath, name string, opts ...DaemonOption) (*TestDaemon, error) {
	// 分配空闲端口
	httpPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate HTTP port: %w", err)
	}

	// 创建隔离的数据目录
	dataDir, err := os.MkdirTemp("", fmt.Sprintf("voyagent-test-%s-", name))
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	d := &TestDaemon{
		Name:     name,
		HTTPPort: httpPort,
		DataDir:  dataDir,
		baseURL:  fmt.Sprintf("http://localhost:%d", httpPort),
	}

	for _, opt := range opts {
		opt(d)
	}

	// 确保知识目录存在
	if err := os.MkdirAll(filepath.Join(dataDir, "knowledge"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create knowledge directory: %w", err)
	}

	d.cmd = buildDaemonCommand(binaryPath, dataDir, httpPort, d.extraEnv)
	return d, nil
}

// NewTestDaemonWithConfig 使用指定配置创建守护进程（用于重启场景）
func NewTestDaemonWithConfig(binaryPath, name, dataDir string, httpPort int) (*TestDaemon, error) {
	d := &TestDaemon{
		Name:     name,
		HTTPPort: httpPort,
		DataDir:  dataDir,
		baseURL:  fmt.Sprintf("http://localhost:%d", httpPort),
	}

	d.cmd = buildDaemonCommand(binaryPath, dataDir, httpPort, nil)
	return d, nil
}

// buildDaemonCommand 组装服务进程命令及隔离环境
func buildDaemonCommand(binaryPath, dataDir string, httpPort int, extraEnv []string) *exec.Cmd {
	cmd := exec.Command(binaryPath)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("VOYAGENT_DATA_DIR=%s", dataDir),
		fmt.Sprintf("VOYAGENT_HTTP_PORT=:%d", httpPort),
		fmt.Sprintf("VOYAGENT_KNOWLEDGE_DIR=%s", filepath.Join(dataDir, "knowledge")),
		fmt.Sprintf("OPENAI_API_KEY=%s", testAPIKey),
		"GIN_MODE=test",
	)
	cmd.Env = append(cmd.Env, extraEnv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Start 启动守护进程并等待就绪
func (d *TestDaemon) Start() error {
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}

	// 等待 health 端点就绪
	return d.waitForReady(30 * time.Second)
}

// Stop 停止守护进程并清理数据目录
func (d *TestDaemon) Stop() error {
	return d.StopWithCleanup(true)
}

// StopWithCleanup 停止守护进程，可选择是否清理数据目录
func (d *TestDaemon) StopWithCleanup(cleanup bool) error {
	if d.cmd.Process != nil {
		// 发送关闭信号
		_ = d.cmd.Process.Signal(os.Interrupt)

		// 等待进程退出（最多 5 秒）
		done := make(chan error, 1)
		go func() {
			done <- d.cmd.Wait()
		}()

		select {
		case <-done:
			// 正常退出
		case <-time.After(5 * time.Second):
			// 强制杀进程
			_ = d.cmd.Process.Kill()
			<-done
		}
	}

	// 可选清理数据目录
	if cleanup {
		return os.RemoveAll(d.DataDir)
	}
	return nil
}

// BaseURL 返回 HTTP 基础 URL
func (d *TestDaemon) BaseURL() string {
	return d.baseURL
}

// waitForReady 等待守护进程 health 端点就绪
func (d *TestDaemon) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(d.baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}

	return fmt.Errorf("daemon %s failed to become ready within %v", d.Name, timeout)
}

// getFreePort 获取一个空闲的 TCP 端口
func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
