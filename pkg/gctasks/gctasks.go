package gctasks

import (
	"context"
	"fmt"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Client defers HTTP callbacks through Google Cloud Tasks. The checkout app
// uses it to schedule budget expiry callbacks.
type Client interface {
	CreateTask(queueID string, request Request) error
	DeferCreateTaskInDuration(queueID string, request Request, duration time.Duration) error
	DeferCreateTaskInTime(queueID string, request Request, schedule time.Time) error
	Close() error
}

const locationID = "europe-west1"

type Request struct {
	URL    string
	Method cloudtaskspb.HttpMethod
	Header map[string]string
	Body   []byte
}

type tasksClientImpl struct {
	projectID string
	logger    *logrus.Logger
	client    *cloudtasks.Client
}

func NewGCTasks(logger *logrus.Logger, projectID string, credsJSON []byte) Client {
	c, err := cloudtasks.NewClient(context.Background(), option.WithCredentialsJSON(credsJSON))
	if err != nil {
		logger.WithField("object", "gctasks").Error(err)
		return nil
	}

	return &tasksClientImpl{
		logger:    logger,
		client:    c,
		projectID: projectID,
	}
}

func (tc *tasksClientImpl) Close() error {
	return tc.client.Close()
}

func (tc *tasksClientImpl) queuePath(queueID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", tc.projectID, locationID, queueID)
}

func (tc *tasksClientImpl) create(queueID string, task *cloudtaskspb.Task) error {
	_, err := tc.client.CreateTask(context.Background(), &cloudtaskspb.CreateTaskRequest{
		Parent: tc.queuePath(queueID),
		Task:   task,
	})
	if err != nil {
		tc.logger.WithFields(logrus.Fields{
			"object":  "gctasks",
			"queueId": queueID,
		}).Error(err)
		return err
	}

	return nil
}

func httpTask(request Request) *cloudtaskspb.Task {
	return &cloudtaskspb.Task{
		MessageType: &cloudtaskspb.Task_HttpRequest{
			HttpRequest: &cloudtaskspb.HttpRequest{
				Url:        request.URL,
				HttpMethod: request.Method,
				Headers:    request.Header,
				Body:       request.Body,
			},
		},
	}
}

func (tc *tasksClientImpl) CreateTask(queueID string, request Request) error {
	return tc.create(queueID, httpTask(request))
}

func (tc *tasksClientImpl) DeferCreateTaskInDuration(queueID string, request Request, duration time.Duration) error {
	task := httpTask(request)
	task.ScheduleTime = timestamppb.New(time.Now().Add(duration))

	return tc.create(queueID, task)
}

func (tc *tasksClientImpl) DeferCreateTaskInTime(queueID string, request Request, schedule time.Time) error {
	task := httpTask(request)
	task.ScheduleTime = timestamppb.New(schedule)

	return tc.create(queueID, task)
}
