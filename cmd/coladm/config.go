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
package main

import (
    "fmt"
    "os"

    . "github.com/AgentElement/functional-supercollider/common"
    . "github.com/AgentElement/functional-supercollider/confbase"
)

type configCommand struct {
}

func newConfigCommand() *configCommand {
    return &configCommand{
    }
}

func connectConfDB(epoints string) *ColliderConfDB {
    if epoints == "" {
        envSetting := EnvUtilsParseEnvSetting()
        epoints = envSetting.EtcdCluster
    }
    db := NewColliderConfDB(ConfParseEtcdEndpoints(epoints))
    if db == nil {
        fmt.Printf("Fail to connect to ETCD %s\n", epoints)
        os.Exit(1)
    }
    return db
}

func ShowColliderConfig(config *ColliderConfig) {
    fmt.Printf("Collider Configuration:\n")
    fmt.Printf(" DB Configuration:\n")
    fmt.Printf("  Server: %s\n", config.DBConfig.Server)
    fmt.Printf("  Port: %s\n", config.DBConfig.Port)
    fmt.Printf("  User: %s\n", config.DBConfig.User)
    fmt.Printf("  Driver: %s\n", config.DBConfig.Driver)
    fmt.Printf("  Database: %s\n", config.DBConfig.DBName)
    fmt.Printf(" Rest Configuration:\n")
    fmt.Printf("  Server: %s\n", config.RestConfig.Server)
    fmt.Printf("  Port: %s\n", config.RestConfig.Port)
    fmt.Printf(" Runner Configuration:\n")
    fmt.Printf("  Binary: %s\n", config.RunnerConfig.Binary)
    fmt.Printf("  ToolchainRoot: %s\n", config.RunnerConfig.ToolchainRoot)
    fmt.Printf("  Toolchain: %s\n", config.RunnerConfig.Toolchain)
    fmt.Printf("  WorkDir: %s\n", config.RunnerConfig.WorkDir)
    fmt.Printf("  OnFailure: %s\n", config.RunnerConfig.OnFailure)
    if len(config.RunnerConfig.Experiments) > 0 {
        fmt.Printf("  Extra Experiments: \n")
        for _, name := range config.RunnerConfig.Experiments {
            fmt.Printf("    %s\n", name)
        }
    }
    fmt.Printf(" Backend Configuration:\n")
    backendConfig := config.BackendConfig
    if backendConfig == nil {
        fmt.Printf("  No backend configured\n")
    } else {
        for i := 0; i < len(backendConfig); i ++ {
            fmt.Printf("  Backend %d:\n", i + 1)
            fmt.Printf("   Type: %s\n", backendConfig[i].Type)
            if backendConfig[i].SbatchPath != "" {
                fmt.Printf("   Sbatch: %s\n", backendConfig[i].SbatchPath)
            }
            if backendConfig[i].SqueuePath != "" {
                fmt.Printf("   Squeue: %s\n", backendConfig[i].SqueuePath)
            }
            if backendConfig[i].ScancelPath != "" {
                fmt.Printf("   Scancel: %s\n", backendConfig[i].ScancelPath)
            }
        }
    }
    fmt.Printf(" Mail Configuration:\n")
    if config.MailConfig.User == "" {
        fmt.Printf("  No mail account configured\n")
    } else {
        fmt.Printf("  User: %s\n", config.MailConfig.User)
        fmt.Printf("  Host: %s\n", config.MailConfig.Host)
        if config.MailConfig.Notify != "" {
            fmt.Printf("  Notify: %s\n", config.MailConfig.Notify)
        }
    }
    fmt.Printf(" Archive Configuration:\n")
    if !config.ArchiveConfig.Enabled {
        fmt.Printf("  Archiving disabled\n")
    } else {
        fmt.Printf("  NameNode: %s\n", config.ArchiveConfig.NameNode)
        fmt.Printf("  RemoteDir: %s\n", config.ArchiveConfig.RemoteDir)
    }
}

func (cmd *configCommand) Init(epoints string, file string) {
    err, config := LoadColliderConfig(file)
    if err != nil {
        fmt.Printf("Fail to parse config from file %s: %s\n",
            file, err.Error())
        os.Exit(1)
    }
    db := connectConfDB(epoints)

    err = db.SaveConfig(config)
    if err != nil {
        fmt.Printf("Fail to save config to ETCD: %s\n",
            err.Error())
        os.Exit(1)
    }
}

func (cmd *configCommand) Dump(epoints string) {
    db := connectConfDB(epoints)

    config := &ColliderConfig{}
    err := db.LoadConfig(config)
    if err != nil {
        fmt.Printf("Fail to load config from ETCD: %s\n",
            err.Error())
        os.Exit(1)
    }
    ShowColliderConfig(config)
}

func (cmd *configCommand) SetMailAccount(epoints string, user string,
    pass string, host string, notify string) {
    db := connectConfDB(epoints)

    mailConfig := &MailConfig{
        User: user,
        Password: pass,
        Host: host,
        Notify: notify,
    }
    err := db.SaveMailConfig(mailConfig)
    if err != nil {
        fmt.Printf("Fail to save mail config to ETCD: %s\n",
            err.Error())
        os.Exit(1)
    }
}

func (cmd *configCommand) SetLogLevel(epoints string, level int) {
    db := connectConfDB(epoints)

    globalConfig := &GlobalConfig{
        LogLevel: level,
    }
    err := db.SaveGlobalConfig(globalConfig)
    if err != nil {
        fmt.Printf("Fail to save global config to ETCD: %s\n",
            err.Error())
        os.Exit(1)
    }
}
