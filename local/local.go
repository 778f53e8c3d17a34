package local

import (
	"veil/config"
	"veil/util"
)

/*
 * package local serves the steganography core over HTTP on the local machine.
 */
func RunLocalServer(configFile, address string) error {

	// 1. read all the things we need
	conf := config.DefaultConfig()
	if configFile != "" {
		var err error
		if conf, err = config.LoadConfig(configFile); err != nil {
			return err
		}
	}
	if address != "" {
		conf.ServerConfig.Address = address
	}

	// 2. create all the things we need
	logger := util.NewLogger(&conf.Logger)
	util.DebugPrintf("server config: %+v", conf.ServerConfig)

	// 3. serve until the listener fails
	if err := RunApiServer(conf, logger); err != nil {
		logger.LogError(err)
		return err
	}
	return nil
}
