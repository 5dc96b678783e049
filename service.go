/*
 Copyright (c) 2024-2025 The functional-supercollider authors
 All rights reserved.

 Redistribution and use in source and binary forms, with or without
 modification, are permitted provided that the following conditions
 are met:
  1. Redistributions of source code must retain the above copyright
     notice, this list of conditions and the following disclaimer.
  2. Redistributions in binary form must reproduce the above copyright
     notice, this list of conditions and the following disclaimer in the
     documentation and/or other materials provided with the distribution.

  THIS SOFTWARE IS PROVIDED BY THE AUTHOR AND CONTRIBUTORS ``AS IS'' AND
  ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
  IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
  ARE DISCLAIMED.  IN NO EVENT SHALL THE AUTHOR OR CONTRIBUTORS BE LIABLE
  FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
  DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS
  OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
  HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT
  LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY
  OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF
  SUCH DAMAGE.
*/

package supercollider

import (
    "errors"
    "fmt"

    "github.com/AgentElement/functional-supercollider/confbase"
    "github.com/AgentElement/functional-supercollider/dbservice"
    "github.com/AgentElement/functional-supercollider/eventbus"
    "github.com/AgentElement/functional-supercollider/runner"
    "github.com/AgentElement/functional-supercollider/runner/backend"
    "github.com/AgentElement/functional-supercollider/server"
    "github.com/AgentElement/functional-supercollider/storage"
    . "github.com/AgentElement/functional-supercollider/common"
)

func ColliderCreateBackend(mode string,
    config *ColliderConfig) (error, backend.BatchBackend) {
    if mode == COLLIDER_MODE_EMULATION {
        return nil, backend.NewLocalBackend()
    }

    if config.BackendConfig == nil {
        Logger.Errorf("Fail to obtain backend config\n")
        return errors.New("No valid backend config"), nil
    }

    for i := 0; i < len(config.BackendConfig); i ++ {
        backendConfig := config.BackendConfig[i]
        switch backendConfig.Type {
            case BACKEND_TYPE_SLURM:
                return nil, backend.NewSlurmBackend(&backendConfig)
            case BACKEND_TYPE_LOCAL:
                return nil, backend.NewLocalBackend()
            default:
                Logger.Errorf("Unknown backend type %s\n",
                    backendConfig.Type)
        }
    }

    return errors.New("No usable backend config"), nil
}

/*
 * ColliderStart brings the service up:
 * 1) initialize the logger facility
 * 2) load the configuration, from file or etcd per mode
 * 3) start database service and mail notifier
 * 4) start schedule backend and batch manager
 * 5) starts REST server to serve user requests
 */
func ColliderStart(mode string) error {
    envSetting := EnvUtilsParseEnvSetting()

    loggerConfig := LoggerConfig{
        Logfile: envSetting.Logfile,
        LogLevel: 0,
    }
    LoggerInit(&loggerConfig)

    Logger.Infof("Collider started with %s mode\n", mode)

    /*Setup the signal handler to dump the go routine stack*/
    SetupDumpStackTrap()

    Logger.Infof("Collider starts loading configuration\n")

    var colliderConfig *ColliderConfig = nil
    var confDB *confbase.ColliderConfDB = nil
    var err error
    if mode == COLLIDER_MODE_EMULATION || mode == COLLIDER_MODE_LOCAL {
        err, colliderConfig = LoadColliderConfig(envSetting.Configfile)
        if err != nil {
            Logger.Errorf("Fail to load config from file %s: %s\n",
                envSetting.Configfile, err.Error())
            return err
        }
    } else {
        endpoints := confbase.ConfParseEtcdEndpoints(envSetting.EtcdCluster)
        confDB = confbase.NewColliderConfDB(endpoints)
        if confDB == nil {
            return errors.New("Fail to create collider conf db")
        }
        colliderConfig = &ColliderConfig{}
        err = confDB.LoadConfig(colliderConfig)
        if err != nil {
            Logger.Errorf("Can't load configuration from confdb: %s\n",
                err.Error())
            return err
        }

        globalConfig := GlobalConfig{}
        err = confDB.LoadGlobalConfig(&globalConfig)
        if err != nil {
            Logger.Errorf("Fail to load global config, ignore: %s\n",
                err.Error())
        } else {
            colliderConfig.LoggerConfig.LogLevel = globalConfig.LogLevel
        }
    }
    Logger.Infof("Collider configuration loaded\n")

    /*re-init the logger with the configured level and file*/
    if colliderConfig.LoggerConfig.Logfile == "" {
        colliderConfig.LoggerConfig.Logfile = envSetting.Logfile
    }
    LoggerInit(&colliderConfig.LoggerConfig)

    /*
     * The history database is optional: without it the service
     * still runs, batches just leave no records behind. A
     * configured but unreachable database only degrades history,
     * so table creation failures don't block startup either.
     */
    if colliderConfig.DBConfig.Server == "" {
        Logger.Infof("No database configured, batch history disabled\n")
    } else {
        Logger.Infof("Collider starts database service\n")
        dbService := dbservice.NewDBService(&colliderConfig.DBConfig)
        if dbService == nil {
            Logger.Errorf("Fail to init DB service\n")
            return errors.New("Fail to init database")
        }
        err = dbService.CreateTables()
        if err != nil {
            Logger.Errorf("Fail to create database tables, "+
                "batch history may be unavailable: %s\n", err.Error())
        }
    }

    mailConfig := colliderConfig.MailConfig
    if mailConfig.User != "" {
        eventbus.SetMailSender(mailConfig.User, mailConfig.Password,
            mailConfig.Host)
        runner.SetupMailNotifier(mailConfig.Notify)
    }

    storage.NewOutputArchiver(&colliderConfig.ArchiveConfig)

    /*
     * Now do core service startup, it should be done
     * in correct order:
     * 1) start the schedule backend
     * 2) start the batch manager on top of it
     * 3) start etcd watchers in cluster mode
     * 4) starts REST server to serve user requests
     */
    Logger.Infof("Collider starts schedule backend\n")
    err, scheduleBackend := ColliderCreateBackend(mode, colliderConfig)
    if err != nil {
        Logger.Errorf("Fail to create the schedule backend: %s\n",
            err.Error())
        return err
    }
    scheduleBackend.Start()

    Logger.Infof("Collider starts batch manager\n")
    batchMgr := runner.NewBatchMgr(colliderConfig, scheduleBackend)
    if batchMgr == nil {
        Logger.Errorf("Fail to init batch manager\n")
        return errors.New("Fail to init batch manager")
    }

    if mode == COLLIDER_MODE_CLUSTER && confDB != nil {
        Logger.Infof("Collider starts watchers now\n")
        confDB.StartGlobalConfigWatcher()
    }

    restServiceChan := make(chan bool)
    restAddr := fmt.Sprintf(":%s", colliderConfig.RestConfig.Port)
    Logger.Infof("Collider starts REST Server on %s Now\n",
        restAddr)
    restServer := server.NewColliderRESTServer(restAddr)
    go func() {
        restServer.StartRESTServer()
        restServiceChan <- true
    }()

    <- restServiceChan
    Logger.Infof("Collider REST server exited\n")

    return nil
}
