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
)

var (

    /*
     * config commands
     */
    config = kingpin.Command("config", "Configuration management")
    cepoints = config.Flag("endpoints", "ETCD endpoints in format svr1,svr2,svr3").
        Short('e').
        String()

    conf_init = config.Command("init", "Initialize the collider configuration")
    ci_file = conf_init.Arg("file", "configure file").
        Required().
        String()

    conf_dump = config.Command("dump", "Dump collider configuration")

    conf_mailaccount = config.Command("mailaccount", "Set a mail account to notify events to users")
    mail_user = conf_mailaccount.Flag("user", "user of mail account").
        Required().
        Short('u').
        String()
    mail_pass = conf_mailaccount.Flag("password", "password of mail account").
        Required().
        Short('p').
        String()
    mail_host = conf_mailaccount.Flag("host", "SMTP host of mail account").
        Required().
        Short('s').
        String()
    mail_notify = conf_mailaccount.Flag("notify", "operator address copied on batch failures").
        Short('n').
        String()

    conf_loglevel = config.Command("loglevel", "Set the service log level")
    cl_level = conf_loglevel.Arg("level", "log level, 0 for info, 1 for debug").
        Required().
        Int()
)

func main() {
    kingpin.CommandLine.HelpFlag.Short('h')

    os := kingpin.Parse()
    cmds := strings.Split(os, " ")

    switch cmds[0] {
    case "config":
        configCmd := newConfigCommand()

        switch cmds[1] {
        case "init":
            configCmd.Init(*cepoints, *ci_file)
        case "dump":
            configCmd.Dump(*cepoints)
        case "mailaccount":
            configCmd.SetMailAccount(*cepoints, *mail_user,
                *mail_pass, *mail_host, *mail_notify)
        case "loglevel":
            configCmd.SetLogLevel(*cepoints, *cl_level)
        }
    }
}
