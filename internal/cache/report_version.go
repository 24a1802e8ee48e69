package cache

import (
	"context"
	"fmt"
)

const reportVersionKey = "report:version"

// ReportVersion 读取报表缓存版本号
// 报表缓存键带版本号，数据变更时递增即可让旧缓存失效
func ReportVersion(ctx context.Context) int64 {
	version, err := GetInt64(ctx, reportVersionKey)
	if err != nil {
		return 0
	}
	return version
}

// BumpReportVersion 递增报表缓存版本号
func BumpReportVersion(ctx context.Context) error {
	_, err := Incr(ctx, reportVersionKey)
	return err
}

// ReportKey 构建带版本号的报表缓存键
func ReportKey(ctx context.Context, name string, parts ...interface{}) string {
	key := fmt.Sprintf("report:v%d:%s", ReportVersion(ctx), name)
	for _, part := range parts {
		key = fmt.Sprintf("%s:%v", key, part)
	}
	return key
}
