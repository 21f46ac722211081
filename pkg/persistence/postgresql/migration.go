package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('active', 'paused')),
				total_runs INT NOT NULL DEFAULT 0,
				successful_runs INT NOT NULL DEFAULT 0,
				failed_runs INT NOT NULL DEFAULT 0,
				last_run_at TIMESTAMP WITH TIME ZONE,
				last_error TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_user_id ON workflows(user_id);
			CREATE INDEX idx_workflows_status ON workflows(status);

			CREATE TABLE workflow_steps (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				step_order INT NOT NULL,
				step_type VARCHAR(20) NOT NULL CHECK (step_type IN ('trigger', 'action')),
				service_name VARCHAR(100) NOT NULL,
				action_name VARCHAR(100) NOT NULL,
				configuration JSONB NOT NULL DEFAULT '{}',
				UNIQUE (workflow_id, step_order)
			);

			CREATE INDEX idx_workflow_steps_workflow_id ON workflow_steps(workflow_id);

			CREATE TABLE credentials (
				id UUID PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL,
				service_name VARCHAR(100) NOT NULL,
				access_token TEXT,
				refresh_token TEXT,
				api_key TEXT,
				expires_at TIMESTAMP WITH TIME ZONE,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				UNIQUE (user_id, service_name)
			);

			CREATE TABLE chat_channels (
				chat_id VARCHAR(255) NOT NULL,
				user_id VARCHAR(255) NOT NULL,
				chat_type VARCHAR(50) NOT NULL DEFAULT '',
				title VARCHAR(255),
				active BOOLEAN NOT NULL DEFAULT TRUE,
				connected_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (user_id, chat_id)
			);

			CREATE INDEX idx_chat_channels_user_active ON chat_channels(user_id, active);
		`,
	}
}
