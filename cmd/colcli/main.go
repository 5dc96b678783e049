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
    "strings"

    "gopkg.in/alecthomas/kingpin.v2"
    . "github.com/AgentElement/functional-supercollider/client"
)

var (

    /*
     * client environment command
     */
    env = kingpin.Command("env", "Environment configuration")
    env_set = env.Command("set", "Set environment configurations")
    es_key = env_set.Arg("key", "Key name of environment").
        Required().
        Enum("server")

    es_val = env_set.Arg("value", "Value of environment").
        Required().
        String()

    env_get = env.Command("get", "Get environment configurations")
    eg_key = env_get.Flag("key", "Key name of environment").
        Default("all").
        HintOptions("server", "all").
        String()

    /*
     * batch commands
     */
    batch = kingpin.Command("batch", "Manage experiment batches")
    bServer = batch.Flag("server", "The collider HTTP server address. Default is localhost:9090").
        Short('s').
        String()

    batch_submit = batch.Command("submit", "Submit a new batch")
    bs_file = batch_submit.Arg("file", "Batch description file").
        Required().
        String()
    bs_yaml = batch_submit.Flag("yaml", "The batch file is in Yaml format").
        Short('y').
        Bool()

    batch_ls = batch.Command("list", "List submitted batches")

    batch_status = batch.Command("status", "Show status of a batch")
    bt_id = batch_status.Arg("id", "Batch job id").
        Required().
        String()
    bt_perf = batch_status.Flag("perf", "Show runtime statistics").
        Short('p').
        Bool()

    batch_cancel = batch.Command("cancel", "Cancel a batch")
    bc_id = batch_cancel.Arg("id", "Batch job id").
        Required().
        String()

    /*
     * experiment commands
     */
    experiment = kingpin.Command("experiment", "Inspect known experiments")
    xServer = experiment.Flag("server", "The collider HTTP server address. Default is localhost:9090").
        Short('s').
        String()

    experiment_ls = experiment.Command("list", "List experiments the service accepts")
)

func main() {
    kingpin.CommandLine.HelpFlag.Short('h')

    os := kingpin.Parse()
    cmds := strings.Split(os, " ")

    switch cmds[0] {
    /*
     * client command
     */
    case "env":
        envCmd := newEnvCommand()

        switch cmds[1] {
        case "get":
            envCmd.Get(*eg_key)
        case "set":
            envCmd.Set(*es_key, *es_val)
        }
    case "batch":
        server := ParseColliderServer(*bServer)
        client := NewColliderClient(server)
        batchCmd := newBatchCommand(client)

        switch cmds[1] {
        case "submit":
            batchCmd.Submit(*bs_file, *bs_yaml)
        case "list":
            batchCmd.List()
        case "status":
            batchCmd.Status(*bt_id, *bt_perf)
        case "cancel":
            batchCmd.Cancel(*bc_id)
        }
    case "experiment":
        server := ParseColliderServer(*xServer)
        client := NewColliderClient(server)

        switch cmds[1] {
        case "list":
            ShowExperiments(client)
        }
    }
}
