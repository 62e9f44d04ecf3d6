package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ PermissionValueProvider = (*ClientPermissionValueProvider)(nil)
	_ SecretHasher            = BcryptSecretHasher{}
	_ IDGenerator             = UUIDGenerator{}
	_ MetricsRecorder         = NopMetricsRecorder{}
	_ ConfigProvider          = (*CfgxConfigProvider)(nil)
	_ OptionsResolver         = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
