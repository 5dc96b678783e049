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

package common

import (
    "encoding/json"
    "io/ioutil"
    "path"
    "os/user"
)

const (
    COLLIDER_DEFAULT_ENDPOINT = "http://127.0.0.1:2379"
    COLLIDER_DEFAULT_SERVER = "127.0.0.1:9090"
)

func ClientConfFile() string {
    dir := ClientConfDir()
    if dir == "" {
        return ""
    }
    return path.Join(dir, "collider_client.conf")
}

func ClientConfDir() string {
    user, err := user.Current()
    if err != nil {
        Logger.Errorf("Fail to get current user: %s\n",
            err.Error())
        return ""
    }
    return user.HomeDir
}

type LoggerConfig struct {
    Logfile string
    LogLevel int
}

type DBServiceConfig struct {
   Server string
   Port   string
   User   string
   Password string
   Driver  string
   DBName   string
}

type RestServerConfig struct {
    Server string
    Port string
}

type MailConfig struct {
    User string
    Password string
    Host string
    /*operator address copied on every batch failure*/
    Notify string
}

/*define the backend type*/
const (
    BACKEND_TYPE_SLURM string = "slurm"
    BACKEND_TYPE_LOCAL string = "local"
)

type BackendConfig struct {
    Type string      //slurm or local
    SbatchPath string
    SqueuePath string
    ScancelPath string
}

/*
 * configuration of the batch runner itself: which binary
 * is driven, where toolchains are installed and the default
 * execution policy for submitted batches.
 */
type RunnerConfig struct {
    Binary string
    ToolchainRoot string
    Toolchain string
    WorkDir string
    OnFailure string
    Experiments []string
}

type ArchiveConfig struct {
    Enabled bool
    NameNode string
    RemoteDir string
}

type ColliderConfig struct {
    LoggerConfig LoggerConfig
    RunnerConfig RunnerConfig
    BackendConfig []BackendConfig
    RestConfig RestServerConfig
    DBConfig DBServiceConfig
    MailConfig MailConfig
    ArchiveConfig ArchiveConfig
}

type GlobalConfig struct {
    LogLevel int
}

func LoadColliderConfig(configFile string) (error, *ColliderConfig) {
    rawData, err := ioutil.ReadFile(configFile)
    if err != nil {
        Logger.Errorf("Fail to read config file %s: %s\n",
            configFile, err.Error())
        return err, nil
    }

    config := &ColliderConfig{}
    err = json.Unmarshal(rawData, config)
    if err != nil {
        Logger.Errorf("Fail to parse config file %s: %s\n",
            configFile, err.Error())
        return err, nil
    }

    return nil, config
}
