package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Sheets   SheetsConfig   `toml:"sheets"`
	Business BusinessConfig `toml:"business"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// SheetsConfig Google Sheets 数据源配置
type SheetsConfig struct {
	CredentialsFile string `toml:"credentials_file"` // 服务账号密钥 JSON 路径

	LotSheetURL   string   `toml:"lot_sheet_url"`
	LotWorksheets []string `toml:"lot_worksheets"`

	MembersSheetURL   string   `toml:"members_sheet_url"`
	MembersWorksheets []string `toml:"members_worksheets"`

	AttendanceSheetURL   string   `toml:"attendance_sheet_url"`
	AttendanceWorksheets []string `toml:"attendance_worksheets"`

	DetapeSheetURL   string   `toml:"detape_sheet_url"`
	DetapeWorksheets []string `toml:"detape_worksheets"`
}

// BusinessConfig 业务配置
type BusinessConfig struct {
	LotColumn    string   `toml:"lot_column"` // 批次标识列名
	FullTeamSize int      `toml:"full_team_size"`
	Shifts       []string `toml:"shifts"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20372,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Sheets: SheetsConfig{
			CredentialsFile:      "service_account.json",
			LotWorksheets:        []string{"Sheet1"},
			MembersWorksheets:    []string{"PTEO Members", "PTEOMembers", "PTEO_Members", "Members", "Sheet1"},
			AttendanceWorksheets: []string{"Attendance Record", "AttendanceRecord", "Attendance", "Sheet1"},
			DetapeWorksheets:     []string{"Detape Monitoring", "DetapeMonitoring", "Detape", "Sheet1"},
		},
		Business: BusinessConfig{
			LotColumn:    "LOT NUMBER",
			FullTeamSize: 3,
			Shifts:       []string{"Shift A", "Shift B", "Shift C"},
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// 环境变量覆盖（用于 E2E / 本地运行）
	if v := os.Getenv("LOTTRACK_CREDENTIALS_FILE"); v != "" {
		config.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("LOTTRACK_LOT_SHEET_URL"); v != "" {
		config.Sheets.LotSheetURL = v
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在，返回绝对路径
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
