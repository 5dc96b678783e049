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

package runner

import (
    "fmt"

    . "github.com/AgentElement/functional-supercollider/common"
    "github.com/AgentElement/functional-supercollider/eventbus"
)

/*batch lifecycle event ids on the event bus*/
const (
    EVENT_BATCH_BEGIN string = "BATCH_BEGIN"
    EVENT_BATCH_END string = "BATCH_END"
    EVENT_BATCH_FAIL string = "BATCH_FAIL"
)

type BatchNotification struct {
    JobId string
    Batch string
    State string
    Recipient string
    Detail string
}

/*
 * The local backend relays lifecycle notifications itself; a
 * slurm-submitted job gets them from the scheduler's own
 * mail-type directives instead.
 */
func (router *OutputRouter) notify(eventId string, request *ResourceRequest,
    event int, batchName string, state int, detail string) {
    if !request.NotifyOn(event) || request.NotifyUser == "" {
        return
    }

    notification := &BatchNotification{
        JobId: router.jobId,
        Batch: batchName,
        State: BatchStateToStr(state),
        Recipient: request.NotifyUser,
        Detail: detail,
    }
    eventbus.Publish(eventbus.NewBaseEvent(eventId, notification))
}

func (router *OutputRouter) NotifyBegin(request *ResourceRequest,
    batchName string) {
    router.notify(EVENT_BATCH_BEGIN, request, NOTIFY_EVENT_BEGIN,
        batchName, BATCH_RUNNING, "batch started")
}

func (router *OutputRouter) NotifyEnd(request *ResourceRequest,
    batchName string, state int, detail string) {
    router.notify(EVENT_BATCH_END, request, NOTIFY_EVENT_END,
        batchName, state, detail)
}

func (router *OutputRouter) NotifyFail(request *ResourceRequest,
    batchName string, state int, detail string) {
    router.notify(EVENT_BATCH_FAIL, request, NOTIFY_EVENT_FAIL,
        batchName, state, detail)
}

func formatBatchMail(data interface{}) string {
    notification, ok := data.(*BatchNotification)
    if !ok {
        return "malformed batch notification"
    }
    return fmt.Sprintf("Batch: %s\nJob: %s\nState: %s\n%s\n",
        notification.Batch, notification.JobId,
        notification.State, notification.Detail)
}

func sendBatchMail(data interface{}) {
    notification, ok := data.(*BatchNotification)
    if !ok || notification.Recipient == "" {
        return
    }
    subject := fmt.Sprintf("[supercollider] batch %s %s",
        notification.Batch, notification.State)
    err := eventbus.SendMail(notification.Recipient, subject,
        formatBatchMail(data))
    if err != nil {
        RunnerLogger.Errorf("Can't mail batch notification to %s: %s\n",
            notification.Recipient, err.Error())
    }
}

/*
 * SetupMailNotifier wires the lifecycle events to the global
 * mail sender. The recipient comes from each notification, so a
 * single subscriber serves every batch. The operator address,
 * when configured, gets a copy of every failure.
 */
func SetupMailNotifier(operator string) *eventbus.Subscriber {
    if !eventbus.HasMailSender() {
        return nil
    }

    subscriber := eventbus.NewSubscriber()
    subscriber.Subscribe(EVENT_BATCH_BEGIN, sendBatchMail, false)
    subscriber.Subscribe(EVENT_BATCH_END, sendBatchMail, false)
    subscriber.Subscribe(EVENT_BATCH_FAIL, sendBatchMail, false)

    if operator != "" {
        receiver, err := eventbus.NewMailReceiver(operator,
            "[supercollider] batch failure", formatBatchMail)
        if err != nil {
            RunnerLogger.Errorf("Can't build operator mail receiver: %s\n",
                err.Error())
            return subscriber
        }
        operatorSubscriber := eventbus.NewSubscriber()
        operatorSubscriber.Subscribe(EVENT_BATCH_FAIL, receiver, false)
    }

    return subscriber
}
