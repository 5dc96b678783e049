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
    "os"
)

/*
 * start as emulation mode:
 * 1) load local config file
 * 2) run local scheduler backend in-process
 */
const COLLIDER_MODE_EMULATION string = "emulation"

/*
 * start as local mode:
 * 1) load config from local config file
 * 2) submit batches to the slurm backend
 */
const COLLIDER_MODE_LOCAL string = "local"

/*
 * start as cluster mode:
 * 1) load config from etcd
 * 2) submit batches to the slurm backend
 */
const COLLIDER_MODE_CLUSTER string = "cluster"

type ColliderEnvSetting struct {
    Logfile string
    Configfile string
    Mode string
    EtcdCluster string
}

func EnvUtilsParseEnvSetting() *ColliderEnvSetting {
    envSetting := &ColliderEnvSetting {
                    Logfile: "/var/log/collider.log",
                    Configfile: "collider.json",
                    Mode: COLLIDER_MODE_LOCAL,
                }
    configFile := os.Getenv("CONFIGFILE")
    if configFile != "" {
        envSetting.Configfile = configFile
    }
    logFile := os.Getenv("LOGFILE")
    if logFile != "" {
        envSetting.Logfile = logFile
    }
    mode := os.Getenv("COLLIDER_MODE")
    if mode != "" {
        envSetting.Mode = mode
    }
    etcdHosts := os.Getenv("ETCD_CLUSTER")
    if etcdHosts == "" {
        etcdHosts = COLLIDER_DEFAULT_ENDPOINT
    }
    envSetting.EtcdCluster = etcdHosts

    return envSetting
}
